package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"prefixstorage.dev/pkg/prefixstorage/internal/adapter"
	"prefixstorage.dev/pkg/prefixstorage/internal/controller"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

const outputFilePerm = 0o644

// ErrFilesFailed is returned once every file was processed but at least one
// of them could not be transformed.
var ErrFilesFailed = errors.New("some files could not be transformed")

// ProcessArgs holds the options shared by every workflow command.
type ProcessArgs struct {
	Paths   []m.Path
	Config  m.TransformConfig
	Threads int
}

// RunArgs configures Run.
type RunArgs struct {
	ProcessArgs
	// Output mirrors rewritten files under this directory. Empty rewrites in place.
	Output m.Path
}

// ListArgs configures List.
type ListArgs struct {
	ProcessArgs
	Format m.ReportFormat
}

// DiffArgs configures Diff.
type DiffArgs struct {
	ProcessArgs
}

// Workflow runs the transform pass over a project, playing the role of the
// host bundler for whole directory trees.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
	Diff(ctx context.Context, args DiffArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	controller.UI
	parser adapter.JSFileAdapter
}

// NewWorkflow creates a Workflow backed by the given adapters.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter, ui controller.UI, parser adapter.JSFileAdapter) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		UI:              ui,
		parser:          parser,
	}
}

// processed pairs a report with the bytes before and after the rewrite.
type processed struct {
	file   m.SourceFile
	report m.FileReport
	before []byte
	after  []byte
}

// Run rewrites every eligible file that contains call sites, in place or
// mirrored under args.Output.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	results, skipped, err := w.process(ctx, args.ProcessArgs)
	if err != nil {
		return err
	}

	for i := range results {
		res := &results[i]
		if res.report.Status == m.StatusFailed {
			continue
		}

		// In place, untouched files stay as they are; an output tree gets every eligible file.
		if args.Output == "" && res.report.Status != m.StatusTransformed {
			continue
		}

		if err := w.writeResult(args.Output, res); err != nil {
			slog.Error("Failed to write transformed file", "file", string(res.file.Path), "error", err)
			res.report.Status = m.StatusFailed
			res.report.Error = err.Error()
		}
	}

	return w.display(ctx, results, skipped, m.FormatTable)
}

func (w *workflow) writeResult(output m.Path, res *processed) error {
	target := res.file.Path

	if output != "" {
		rel, err := w.RelPath(res.file.Root, res.file.Path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", res.file.Path, err)
		}

		target = w.JoinPath(string(output), string(rel))
	}

	perm := os.FileMode(outputFilePerm)
	if info, err := w.FileInfo(res.file.Path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := w.WriteFile(target, res.after, perm); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	slog.Debug("wrote transformed file", "file", string(res.file.Path), "target", string(target))

	return nil
}

// List reports call sites per file without writing anything.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	results, skipped, err := w.process(ctx, args.ProcessArgs)
	if err != nil {
		return err
	}

	format := args.Format
	if format == "" {
		format = m.FormatTable
	}

	return w.display(ctx, results, skipped, format)
}

// Diff prints a unified diff for every file the pass would change.
func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	results, skipped, err := w.process(ctx, args.ProcessArgs)
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.report.Status != m.StatusTransformed {
			continue
		}

		diff, err := UnifiedDiff(res.file.Path, res.before, res.after)
		if err != nil {
			return fmt.Errorf("diff %s: %w", res.file.Path, err)
		}

		if err := w.DisplayDiff(ctx, res.file.Path, diff); err != nil {
			return err
		}
	}

	summary := m.Summarize(reportsOf(results), skipped)
	if err := w.DisplaySummary(ctx, summary); err != nil {
		return err
	}

	return failedErr(summary)
}

func (w *workflow) display(ctx context.Context, results []processed, skipped int, format m.ReportFormat) error {
	reports := reportsOf(results)

	if err := w.DisplayReports(ctx, reports, format); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	summary := m.Summarize(reports, skipped)

	if format == m.FormatTable {
		if err := w.DisplaySummary(ctx, summary); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}

	return failedErr(summary)
}

func failedErr(summary m.Summary) error {
	if summary.Failed == 0 {
		return nil
	}

	return fmt.Errorf("%w: %d of %d", ErrFilesFailed, summary.Failed, summary.Files)
}

func reportsOf(results []processed) []m.FileReport {
	reports := make([]m.FileReport, 0, len(results))
	for _, res := range results {
		reports = append(reports, res.report)
	}

	return reports
}

// process gates every discovered file through the pass filter and transforms
// the eligible ones concurrently. One file's failure is recorded in its report
// and never stops the others.
func (w *workflow) process(ctx context.Context, args ProcessArgs) ([]processed, int, error) {
	pass, err := NewPass(args.Config, WithParser(w.parser), WithLogger(slog.Default()))
	if err != nil {
		return nil, 0, err
	}

	files, err := w.collectFiles(args.Paths)
	if err != nil {
		return nil, 0, fmt.Errorf("get sources: %w", err)
	}

	eligible := make([]m.SourceFile, 0, len(files))
	for _, file := range files {
		if pass.ShouldTransform(string(file.Path)) {
			eligible = append(eligible, file)
		}
	}

	skipped := len(files) - len(eligible)

	slog.Info("Processing sources", "eligible", len(eligible), "skipped", skipped, "threads", args.Threads)

	results := make([]processed, len(eligible))

	var group errgroup.Group
	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for i, file := range eligible {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = w.processFile(ctx, pass, file)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, skipped, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].file.Path < results[j].file.Path
	})

	return results, skipped, nil
}

func (w *workflow) processFile(ctx context.Context, pass *Pass, file m.SourceFile) processed {
	res := processed{file: file, report: m.FileReport{Path: file.Path}}

	content, err := w.ReadFile(file.Path)
	if err != nil {
		pass.ReportFailure(file.Path, err)
		res.report.Status = m.StatusFailed
		res.report.Error = err.Error()

		return res
	}

	res.before = content

	result, err := pass.Process(ctx, m.SourceUnit{ID: file.Path, Text: content})
	if err != nil {
		pass.ReportFailure(file.Path, err)
		res.report.Status = m.StatusFailed
		res.report.Error = err.Error()

		return res
	}

	res.after = []byte(result.Code)
	res.report.CallSites = result.CallSites

	res.report.Status = m.StatusUnchanged
	if len(result.CallSites) > 0 {
		res.report.Status = m.StatusTransformed
	}

	return res
}

// collectFiles expands Go-style path patterns: "dir/..." walks recursively,
// "dir" lists the directory only and anything else is taken as a file.
func (w *workflow) collectFiles(paths []m.Path) ([]m.SourceFile, error) {
	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	seen := make(map[m.Path]struct{})

	var files []m.SourceFile

	for _, p := range paths {
		root, recursive := parsePathPattern(p)

		info, err := w.FileInfo(root)
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			if _, ok := seen[root]; !ok {
				seen[root] = struct{}{}
				files = append(files, m.SourceFile{Path: root, Root: m.Path(filepath.Dir(string(root)))})
			}

			continue
		}

		err = w.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				return nil
			}

			file := m.Path(path)
			if _, ok := seen[file]; ok {
				return nil
			}

			seen[file] = struct{}{}
			files = append(files, m.SourceFile{Path: file, Root: root})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	return files, nil
}

func parsePathPattern(p m.Path) (m.Path, bool) {
	s := string(p)

	if s == "..." {
		return ".", true
	}

	for _, suffix := range []string{"/...", string(filepath.Separator) + "..."} {
		if strings.HasSuffix(s, suffix) {
			root := strings.TrimSuffix(s, suffix)
			if root == "" {
				root = "."
			}

			return m.Path(root), true
		}
	}

	return p, false
}
