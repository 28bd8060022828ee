package adapter

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

const maxSnippetLen = 20

// SyntaxError reports the first ERROR or MISSING node of a parse.
type SyntaxError struct {
	ID      m.Path
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Line, e.Column)
}

func newSyntaxError(id m.Path, root *tree_sitter.Node, src []byte) *SyntaxError {
	node := firstErrorNode(root)
	if node == nil {
		// HasError was true but no node carries it; point at the root.
		node = root
	}

	pos := node.StartPosition()

	return &SyntaxError{
		ID:      id,
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Message: describeErrorNode(node, src),
	}
}

func firstErrorNode(node *tree_sitter.Node) *tree_sitter.Node {
	if node == nil {
		return nil
	}

	if node.IsError() || node.IsMissing() {
		return node
	}

	if !node.HasError() {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}

	return nil
}

func describeErrorNode(node *tree_sitter.Node, src []byte) string {
	if node.IsMissing() {
		return fmt.Sprintf("missing %q", node.Kind())
	}

	text := strings.TrimSpace(node.Utf8Text(src))
	if text == "" {
		return "unexpected end of input"
	}

	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}

	if len(text) > maxSnippetLen {
		text = text[:maxSnippetLen] + "..."
	}

	return fmt.Sprintf("unexpected %q", text)
}
