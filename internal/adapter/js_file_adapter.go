package adapter

import (
	"context"
	"fmt"
	"path"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

// Grammar selects the tree-sitter grammar used for a file.
type Grammar int

const (
	// GrammarJavaScript covers .js, .jsx, .mjs, .cjs and unknown extensions.
	GrammarJavaScript Grammar = iota
	// GrammarTypeScript covers .ts, .mts and .cts.
	GrammarTypeScript
	// GrammarTSX covers .tsx.
	GrammarTSX
)

func (g Grammar) String() string {
	switch g {
	case GrammarTypeScript:
		return "typescript"
	case GrammarTSX:
		return "tsx"
	}

	return "javascript"
}

// GrammarFor picks the grammar from the extension of id. Query strings that
// bundlers append to module ids are ignored.
func GrammarFor(id m.Path) Grammar {
	name := string(id)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}

	switch strings.ToLower(path.Ext(strings.ReplaceAll(name, "\\", "/"))) {
	case ".ts", ".mts", ".cts":
		return GrammarTypeScript
	case ".tsx":
		return GrammarTSX
	}

	return GrammarJavaScript
}

// SyntaxTree is the parsed form of one source unit. It must be closed once the
// pass is done with it.
type SyntaxTree struct {
	ID      m.Path
	Source  []byte
	Grammar Grammar
	tree    *tree_sitter.Tree
}

// Root returns the program node.
func (t *SyntaxTree) Root() *tree_sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree.
func (t *SyntaxTree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// JSFileAdapter hides the parser and printer behind the two operations the
// transform pass needs.
type JSFileAdapter interface {
	// Parse builds a syntax tree, failing with a *SyntaxError when src is not
	// valid for the grammar selected by id.
	Parse(ctx context.Context, id m.Path, src []byte) (*SyntaxTree, error)

	// Print applies edits to src and returns the new text.
	Print(src []byte, edits []m.Edit) ([]byte, error)
}

// TreeSitterAdapter implements JSFileAdapter with tree-sitter grammars. It
// holds no state, every Parse call gets its own parser.
type TreeSitterAdapter struct{}

// NewTreeSitterAdapter constructs a TreeSitterAdapter.
func NewTreeSitterAdapter() *TreeSitterAdapter {
	return &TreeSitterAdapter{}
}

func language(g Grammar) *tree_sitter.Language {
	switch g {
	case GrammarTypeScript:
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case GrammarTSX:
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	}

	return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
}

// Parse builds a syntax tree for src.
func (a *TreeSitterAdapter) Parse(ctx context.Context, id m.Path, src []byte) (*SyntaxTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grammar := GrammarFor(id)

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(language(grammar)); err != nil {
		return nil, fmt.Errorf("setting %s language: %w", grammar, err)
	}

	length := len(src)
	tree := parser.ParseWithOptions(func(i int, _ tree_sitter.Point) []byte {
		if i < length {
			return src[i:]
		}

		return []byte{}
	}, nil, &tree_sitter.ParseOptions{
		ProgressCallback: func(tree_sitter.ParseState) bool {
			return ctx.Err() != nil
		},
	})

	if tree == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return nil, fmt.Errorf("parse %s: parser returned no tree", id)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("parse %s: parser returned nil root node", id)
	}

	if root.HasError() {
		err := newSyntaxError(id, root, src)

		tree.Close()

		return nil, err
	}

	return &SyntaxTree{
		ID:      id,
		Source:  src,
		Grammar: grammar,
		tree:    tree,
	}, nil
}
