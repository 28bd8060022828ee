package model

import "slices"

// StorageObject is the bare identifier whose methods are rewritten.
const StorageObject = "localStorage"

// DefaultPrefix is prepended to storage keys when no prefix is configured.
const DefaultPrefix = "_"

// StorageMethods lists the methods whose first argument is a storage key.
var StorageMethods = []string{"getItem", "setItem", "removeItem", "key"}

// DefaultInclude returns the patterns of files transformed by default.
func DefaultInclude() []string {
	return []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"}
}

// DefaultExclude returns the patterns of files skipped by default.
func DefaultExclude() []string {
	return []string{"**/node_modules/**", "**/dist/**"}
}

// TransformConfig configures one transform pass. It is never mutated after the
// pass is built, so a single pass can serve many files concurrently.
type TransformConfig struct {
	// Prefix is prepended verbatim to every key. Empty means DefaultPrefix.
	Prefix string
	// Include patterns. nil means DefaultInclude; an empty slice includes everything.
	Include []string
	// Exclude patterns. nil means DefaultExclude.
	Exclude []string
	// BaseDir resolves relative patterns and ids. Empty leaves them as given.
	BaseDir string
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c TransformConfig) WithDefaults() TransformConfig {
	out := c
	if out.Prefix == "" {
		out.Prefix = DefaultPrefix
	}

	if out.Include == nil {
		out.Include = DefaultInclude()
	} else {
		out.Include = slices.Clone(out.Include)
	}

	if out.Exclude == nil {
		out.Exclude = DefaultExclude()
	} else {
		out.Exclude = slices.Clone(out.Exclude)
	}

	return out
}

// IsStorageMethod reports whether name is one of StorageMethods.
func IsStorageMethod(name string) bool {
	for _, method := range StorageMethods {
		if method == name {
			return true
		}
	}

	return false
}
