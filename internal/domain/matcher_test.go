package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prefixstorage.dev/pkg/prefixstorage/internal/adapter"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

func parseSource(t *testing.T, id, src string) *adapter.SyntaxTree {
	t.Helper()

	tree, err := adapter.NewTreeSitterAdapter().Parse(context.Background(), m.Path(id), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	return tree
}

func methodsOf(sites []m.CallSite) []string {
	methods := make([]string, 0, len(sites))
	for _, site := range sites {
		methods = append(methods, site.Method)
	}

	return methods
}

func TestFindCallSites_AllStorageMethods(t *testing.T) {
	src := `localStorage.getItem('a');
localStorage.setItem('b', 1);
localStorage.removeItem('c');
localStorage.key(0);
localStorage.clear();
localStorage.length;
`
	sites := FindCallSites(parseSource(t, "app.js", src))

	require.Len(t, sites, 4)
	assert.Equal(t, []string{"getItem", "setItem", "removeItem", "key"}, methodsOf(sites))

	assert.Equal(t, "localStorage", sites[0].Object)
	assert.Equal(t, 1, sites[0].Line)
	assert.Equal(t, 1, sites[0].Column)
	assert.Equal(t, "'a'", sites[0].FirstArgument.Text)
	assert.Equal(t, "string", sites[0].FirstArgument.Kind)

	assert.Equal(t, 4, sites[3].Line)
	assert.Equal(t, "number", sites[3].FirstArgument.Kind)
}

func TestFindCallSites_IgnoresOtherReceivers(t *testing.T) {
	src := `sessionStorage.getItem('a');
window.localStorage.getItem('b');
storage.getItem('c');
localStorage['getItem']('d');
getItem('e');
localStorage.getItem();
localStorage.getItem(...keys);
`
	sites := FindCallSites(parseSource(t, "app.js", src))

	assert.Empty(t, sites)
}

func TestFindCallSites_ShadowedIdentifierStillMatches(t *testing.T) {
	src := `function f(localStorage) { return localStorage.getItem('k'); }`

	sites := FindCallSites(parseSource(t, "app.js", src))

	require.Len(t, sites, 1)
	assert.Equal(t, "getItem", sites[0].Method)
}

func TestFindCallSites_NestedCallsInSourceOrder(t *testing.T) {
	src := `localStorage.getItem(localStorage.key(0));`

	sites := FindCallSites(parseSource(t, "app.js", src))

	require.Len(t, sites, 2)
	assert.Equal(t, []string{"getItem", "key"}, methodsOf(sites))
	assert.Equal(t, "call_expression", sites[0].FirstArgument.Kind)
	assert.Less(t, sites[0].FirstArgument.Start, sites[1].FirstArgument.Start)
}

func TestFindCallSites_SkipsLeadingComment(t *testing.T) {
	src := `localStorage.getItem(/* key */ 'k');`

	sites := FindCallSites(parseSource(t, "app.js", src))

	require.Len(t, sites, 1)
	assert.Equal(t, "'k'", sites[0].FirstArgument.Text)
}

func TestFindCallSites_RecordsBinaryOperator(t *testing.T) {
	src := `localStorage.getItem(a * b); localStorage.getItem(a + b);`

	sites := FindCallSites(parseSource(t, "app.js", src))

	require.Len(t, sites, 2)
	assert.Equal(t, "*", sites[0].FirstArgument.Operator)
	assert.Equal(t, "+", sites[1].FirstArgument.Operator)
}

func TestFindCallSites_TypeScript(t *testing.T) {
	src := `const v = localStorage.getItem<string>(key as string);
export const clear = (k: string): void => localStorage.removeItem(k);
`
	sites := FindCallSites(parseSource(t, "store.ts", src))

	require.Len(t, sites, 2)
	assert.Equal(t, "as_expression", sites[0].FirstArgument.Kind)
	assert.Equal(t, "identifier", sites[1].FirstArgument.Kind)
}

func TestFindCallSites_TSX(t *testing.T) {
	src := `export const App = () => <div title={localStorage.getItem("title")!} />;`

	sites := FindCallSites(parseSource(t, "App.tsx", src))

	require.Len(t, sites, 1)
	assert.Equal(t, `"title"`, sites[0].FirstArgument.Text)
}
