// Package storageprefix namespaces localStorage keys in JavaScript and
// TypeScript sources. It is the embeddable form of the prefixstorage CLI for
// hosts that drive their own file pipeline, such as a bundler plugin.
//
//	pass, err := storageprefix.New(storageprefix.Options{Prefix: "app_"})
//	if err != nil {
//		return err
//	}
//	if res := pass.Transform(code, id); res != nil {
//		code = res.Code
//	}
package storageprefix

import (
	"log/slog"
	"os"

	"prefixstorage.dev/pkg/prefixstorage/internal/domain"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

// DefaultPrefix is used when Options.Prefix is empty.
const DefaultPrefix = m.DefaultPrefix

// Options configures a Pass. The zero value is usable.
type Options struct {
	// Prefix is prepended to every storage key. Empty means DefaultPrefix;
	// there is no way to request an empty prefix.
	Prefix string
	// Include lists glob patterns of files to transform. nil means
	// DefaultInclude; an empty non-nil slice includes every file.
	Include []string
	// Exclude lists glob patterns of files to skip. nil means DefaultExclude.
	Exclude []string
	// BaseDir resolves relative patterns and ids. Empty means the working
	// directory at construction time.
	BaseDir string
	// Logger receives one error line per file that could not be processed.
	// nil means slog.Default().
	Logger *slog.Logger
}

// SourceMap is the mapping emitted with a result. Transform never produces one.
type SourceMap = m.SourceMap

// Result is the rewritten text of one file.
type Result struct {
	Code string
	Map  *SourceMap
}

// Pass rewrites files one at a time and is safe for concurrent use.
type Pass struct {
	pass *domain.Pass
}

// DefaultInclude returns the patterns used when Options.Include is nil.
func DefaultInclude() []string {
	return m.DefaultInclude()
}

// DefaultExclude returns the patterns used when Options.Exclude is nil.
func DefaultExclude() []string {
	return m.DefaultExclude()
}

// New builds a Pass. It fails only on malformed glob patterns.
func New(opts Options) (*Pass, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}

	pass, err := domain.NewPass(m.TransformConfig{
		Prefix:  opts.Prefix,
		Include: opts.Include,
		Exclude: opts.Exclude,
		BaseDir: baseDir,
	}, domain.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	return &Pass{pass: pass}, nil
}

// ShouldTransform reports whether id passes the include/exclude filter.
func (p *Pass) ShouldTransform(id string) bool {
	return p.pass.ShouldTransform(id)
}

// Transform returns the rewritten code for id, or nil when id is filtered out
// or the code cannot be parsed. Failures are logged, never returned.
func (p *Pass) Transform(code, id string) *Result {
	res := p.pass.Transform(code, id)
	if res == nil {
		return nil
	}

	return &Result{Code: res.Code, Map: res.Map}
}
