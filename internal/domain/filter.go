package domain

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides per file whether the transform runs. It follows the rules of
// Rollup's createFilter: relative patterns and ids are resolved against a base
// directory, patterns starting with "**" are left as they are, and ids of
// virtual modules (containing a NUL byte) never match.
type Filter struct {
	include []string
	exclude []string
	baseDir string
}

// NewFilter compiles include and exclude patterns. An empty include list
// includes every file.
func NewFilter(include, exclude []string, baseDir string) (*Filter, error) {
	base := ""
	if baseDir != "" {
		base = filepath.ToSlash(filepath.Clean(baseDir))
	}

	f := &Filter{baseDir: base}

	var err error

	if f.include, err = f.resolvePatterns(include); err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}

	if f.exclude, err = f.resolvePatterns(exclude); err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}

	return f, nil
}

func (f *Filter) resolvePatterns(patterns []string) ([]string, error) {
	resolved := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		p := filepath.ToSlash(pattern)
		if !strings.HasPrefix(p, "**") && !isAbs(p) && f.baseDir != "" {
			p = path.Join(escapeGlob(f.baseDir), p)
		}

		p = trimRoot(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		resolved = append(resolved, p)
	}

	return resolved, nil
}

// ShouldTransform reports whether id is matched by at least one include
// pattern and by no exclude pattern.
func (f *Filter) ShouldTransform(id string) bool {
	if id == "" || strings.ContainsRune(id, 0) {
		return false
	}

	name := filepath.ToSlash(id)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}

	if !isAbs(name) && f.baseDir != "" {
		name = path.Join(f.baseDir, name)
	}

	name = trimRoot(name)

	for _, pattern := range f.exclude {
		if match(pattern, name) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}

	for _, pattern := range f.include {
		if match(pattern, name) {
			return true
		}
	}

	return false
}

// escapeGlob quotes glob metacharacters so a directory name is matched literally.
func escapeGlob(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}

func match(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

func isAbs(p string) bool {
	return strings.HasPrefix(p, "/") || filepath.VolumeName(p) != ""
}

// trimRoot drops the volume name and leading slashes so that "**" patterns
// and resolved absolute paths compare on the same segments.
func trimRoot(p string) string {
	p = p[len(filepath.VolumeName(p)):]
	return strings.TrimLeft(p, "/")
}
