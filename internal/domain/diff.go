package domain

import (
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

const diffContextLines = 3

// UnifiedDiff renders the change from before to after in git's a/ b/ style.
// It returns an empty string when nothing changed.
func UnifiedDiff(path m.Path, before, after []byte) (string, error) {
	name := filepath.ToSlash(string(path))

	diff := difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContextLines,
	}

	return difflib.GetUnifiedDiffString(diff)
}

// splitLines keeps the newline on each line. difflib.SplitLines would add an
// empty line after a trailing newline.
func splitLines(text []byte) []string {
	if len(text) == 0 {
		return nil
	}

	return difflib.SplitLines(strings.TrimSuffix(string(text), "\n"))
}
