// Package domain contains the storage-key transform pass and the workflow that
// runs it over a project.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"prefixstorage.dev/pkg/prefixstorage/internal/adapter"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

// ErrFiltered is returned by Process for files the inclusion filter rejects.
var ErrFiltered = errors.New("file filtered out")

// Pass rewrites storage calls in one file at a time. A Pass holds only
// immutable configuration and is safe for concurrent use.
type Pass struct {
	config m.TransformConfig
	filter *Filter
	parser adapter.JSFileAdapter
	logger *slog.Logger
}

// PassOption customises a Pass.
type PassOption func(*Pass)

// WithLogger sets the logger that receives per-file diagnostics.
func WithLogger(logger *slog.Logger) PassOption {
	return func(p *Pass) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithParser replaces the tree-sitter parser/printer.
func WithParser(parser adapter.JSFileAdapter) PassOption {
	return func(p *Pass) {
		if parser != nil {
			p.parser = parser
		}
	}
}

// NewPass builds a pass from config. Unset config fields take their defaults.
func NewPass(config m.TransformConfig, opts ...PassOption) (*Pass, error) {
	config = config.WithDefaults()

	filter, err := NewFilter(config.Include, config.Exclude, config.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	p := &Pass{
		config: config,
		filter: filter,
		parser: adapter.NewTreeSitterAdapter(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Config returns the resolved configuration.
func (p *Pass) Config() m.TransformConfig {
	cfg := p.config
	cfg.Include = slices.Clone(cfg.Include)
	cfg.Exclude = slices.Clone(cfg.Exclude)

	return cfg
}

// ShouldTransform reports whether the inclusion filter accepts id.
func (p *Pass) ShouldTransform(id string) bool {
	return p.filter.ShouldTransform(id)
}

// Transform rewrites code and returns nil when the file is filtered out or
// cannot be processed. Failures are logged once with the file id and never
// returned to the caller.
func (p *Pass) Transform(code, id string) *m.RewriteResult {
	result, err := p.Process(context.Background(), m.SourceUnit{ID: m.Path(id), Text: []byte(code)})
	if err != nil {
		if !errors.Is(err, ErrFiltered) {
			p.ReportFailure(m.Path(id), err)
		}

		return nil
	}

	return result
}

// ReportFailure logs the diagnostic line for a file that could not be processed.
func (p *Pass) ReportFailure(id m.Path, err error) {
	p.logger.Error(fmt.Sprintf("Error processing file %s: %v", id, err), "file", string(id))
}

// Process is the error-returning form of Transform used by hosts that want to
// tell filtered files from failures.
func (p *Pass) Process(ctx context.Context, unit m.SourceUnit) (result *m.RewriteResult, err error) {
	if !p.filter.ShouldTransform(string(unit.ID)) {
		return nil, ErrFiltered
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("processing panicked: %v", r)
		}
	}()

	tree, err := p.parser.Parse(ctx, unit.ID, unit.Text)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	sites := FindCallSites(tree)
	edits := RewriteArguments(sites, p.config.Prefix)

	code, err := p.parser.Print(unit.Text, edits)
	if err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}

	p.logger.Debug("transformed file", "file", string(unit.ID), "call_sites", len(sites))

	return &m.RewriteResult{
		Code:      string(code),
		Map:       nil,
		CallSites: sites,
	}, nil
}
