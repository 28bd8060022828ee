package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

// RewriteArguments produces the edits that turn the first argument of every
// call site into `"<prefix>" + <argument>`. The argument is wrapped in
// parentheses when it binds looser than the right operand of `+`, so the
// result always evaluates to prefix + (original key).
func RewriteArguments(sites []m.CallSite, prefix string) []m.Edit {
	literal := QuoteJSString(prefix) + " + "

	edits := make([]m.Edit, 0, len(sites)*2)

	for _, site := range sites {
		arg := site.FirstArgument

		if !needsParens(arg) {
			edits = append(edits, m.Edit{Offset: arg.Start, Text: literal})
			continue
		}

		edits = append(edits,
			m.Edit{Offset: arg.Start, Text: literal + "("},
			m.Edit{Offset: arg.End, Text: ")", Closing: true},
		)
	}

	return edits
}

// tightKinds bind at least as tightly as a multiplicative expression and can
// sit on the right of `+` as they are.
var tightKinds = map[string]bool{
	"identifier":               true,
	"string":                   true,
	"template_string":          true,
	"number":                   true,
	"regex":                    true,
	"true":                     true,
	"false":                    true,
	"null":                     true,
	"undefined":                true,
	"this":                     true,
	"super":                    true,
	"array":                    true,
	"object":                   true,
	"member_expression":        true,
	"subscript_expression":     true,
	"call_expression":          true,
	"new_expression":           true,
	"parenthesized_expression": true,
	"unary_expression":         true,
	"update_expression":        true,
	"await_expression":         true,
	"non_null_expression":      true,
}

var tightOperators = map[string]bool{
	"*":  true,
	"/":  true,
	"%":  true,
	"**": true,
}

func needsParens(arg m.Argument) bool {
	if tightKinds[arg.Kind] {
		return false
	}

	if arg.Kind == "binary_expression" && tightOperators[arg.Operator] {
		return false
	}

	return true
}

// QuoteJSString renders s as a double-quoted JavaScript string literal.
func QuoteJSString(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(`\uFFFD`)
			i++

			continue
		}

		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02X`, r)
			} else {
				b.WriteRune(r)
			}
		}

		i += size
	}

	b.WriteByte('"')

	return b.String()
}
