package domain

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"prefixstorage.dev/pkg/prefixstorage/internal/adapter"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

// FindCallSites walks tree depth-first in source order and returns every call
// of a storage method on the storage object.
//
// Matching is purely syntactic. A local variable that shadows the storage
// object is indistinguishable from the real one, and `window.localStorage` is
// a different spelling that is not matched.
func FindCallSites(tree *adapter.SyntaxTree) []m.CallSite {
	var sites []m.CallSite

	collectCallSites(tree.Root(), tree.Source, &sites)

	return sites
}

func collectCallSites(node *tree_sitter.Node, src []byte, out *[]m.CallSite) {
	if node == nil {
		return
	}

	if site, ok := matchCallSite(node, src); ok {
		*out = append(*out, site)
	}

	// Keep descending into matches: a key may itself be a storage call.
	for i := uint(0); i < node.NamedChildCount(); i++ {
		collectCallSites(node.NamedChild(i), src, out)
	}
}

func matchCallSite(node *tree_sitter.Node, src []byte) (m.CallSite, bool) {
	if node.Kind() != "call_expression" {
		return m.CallSite{}, false
	}

	callee := node.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "member_expression" {
		return m.CallSite{}, false
	}

	object := callee.ChildByFieldName("object")
	if object == nil || object.Kind() != "identifier" || object.Utf8Text(src) != m.StorageObject {
		return m.CallSite{}, false
	}

	property := callee.ChildByFieldName("property")
	if property == nil || property.Kind() != "property_identifier" {
		return m.CallSite{}, false
	}

	method := property.Utf8Text(src)
	if !m.IsStorageMethod(method) {
		return m.CallSite{}, false
	}

	first := firstArgument(node.ChildByFieldName("arguments"))
	if first == nil {
		return m.CallSite{}, false
	}

	pos := node.StartPosition()

	return m.CallSite{
		Object:        m.StorageObject,
		Method:        method,
		Line:          int(pos.Row) + 1,
		Column:        int(pos.Column) + 1,
		FirstArgument: describeArgument(first, src),
	}, true
}

// firstArgument returns the first argument expression, skipping comments. A
// spread element is not a key expression and yields nil.
func firstArgument(args *tree_sitter.Node) *tree_sitter.Node {
	// Tagged templates put a template_string in the arguments field.
	if args == nil || args.Kind() != "arguments" {
		return nil
	}

	for i := uint(0); i < args.NamedChildCount(); i++ {
		child := args.NamedChild(i)
		if child == nil || child.IsExtra() || child.Kind() == "comment" {
			continue
		}

		if child.Kind() == "spread_element" {
			return nil
		}

		return child
	}

	return nil
}

func describeArgument(node *tree_sitter.Node, src []byte) m.Argument {
	arg := m.Argument{
		Start: node.StartByte(),
		End:   node.EndByte(),
		Kind:  node.Kind(),
		Text:  node.Utf8Text(src),
	}

	if arg.Kind == "binary_expression" {
		if op := node.ChildByFieldName("operator"); op != nil {
			arg.Operator = op.Kind()
		}
	}

	return arg
}
