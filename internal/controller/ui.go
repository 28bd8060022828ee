// Package controller provides output adapters for displaying transform results.
package controller

import (
	"context"

	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

// UI defines how the workflow reports its results.
// Implementations can use different output methods (plain tables, YAML, ...).
type UI interface {
	DisplayReports(ctx context.Context, reports []m.FileReport, format m.ReportFormat) error
	DisplayDiff(ctx context.Context, path m.Path, diff string) error
	DisplaySummary(ctx context.Context, summary m.Summary) error
}
