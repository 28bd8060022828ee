package domain

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prefixstorage.dev/pkg/prefixstorage/internal/adapter"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

type recordingUI struct {
	mu      sync.Mutex
	reports []m.FileReport
	format  m.ReportFormat
	diffs   map[m.Path]string
	summary *m.Summary
}

func (u *recordingUI) DisplayReports(_ context.Context, reports []m.FileReport, format m.ReportFormat) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.reports = reports
	u.format = format

	return nil
}

func (u *recordingUI) DisplayDiff(_ context.Context, path m.Path, diff string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.diffs == nil {
		u.diffs = make(map[m.Path]string)
	}

	u.diffs[path] = diff

	return nil
}

func (u *recordingUI) DisplaySummary(_ context.Context, summary m.Summary) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.summary = &summary

	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(content)
}

func newTestWorkflow() (Workflow, *recordingUI) {
	ui := &recordingUI{}

	return NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui, adapter.NewTreeSitterAdapter()), ui
}

// newProject lays out a small tree with one file of every outcome.
func newProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app.js"), "localStorage.getItem('a');\n")
	writeFile(t, filepath.Join(root, "src", "store.ts"), "export const s = (k: string) => localStorage.setItem(k, '1');\n")
	writeFile(t, filepath.Join(root, "src", "plain.js"), "console.log('no storage');\n")
	writeFile(t, filepath.Join(root, "src", "broken.js"), "localStorage.setItem('k', 'v'\n")
	writeFile(t, filepath.Join(root, "src", "style.css"), "body {}\n")
	writeFile(t, filepath.Join(root, "node_modules", "lib", "index.js"), "localStorage.getItem('lib');\n")

	return root
}

func statusByName(reports []m.FileReport) map[string]m.FileStatus {
	statuses := make(map[string]m.FileStatus, len(reports))
	for _, report := range reports {
		statuses[filepath.Base(string(report.Path))] = report.Status
	}

	return statuses
}

func TestWorkflow_RunInPlace(t *testing.T) {
	root := newProject(t)
	wf, ui := newTestWorkflow()

	err := wf.Run(context.Background(), RunArgs{ProcessArgs: ProcessArgs{
		Paths:   []m.Path{m.Path(root + "/...")},
		Config:  m.TransformConfig{BaseDir: root},
		Threads: 2,
	}})

	require.ErrorIs(t, err, ErrFilesFailed)

	assert.Equal(t, "localStorage.getItem(\"_\" + 'a');\n", readFile(t, filepath.Join(root, "src", "app.js")))
	assert.Equal(t, "export const s = (k: string) => localStorage.setItem(\"_\" + k, '1');\n", readFile(t, filepath.Join(root, "src", "store.ts")))
	assert.Equal(t, "localStorage.setItem('k', 'v'\n", readFile(t, filepath.Join(root, "src", "broken.js")))
	assert.Equal(t, "localStorage.getItem('lib');\n", readFile(t, filepath.Join(root, "node_modules", "lib", "index.js")))

	assert.Equal(t, map[string]m.FileStatus{
		"app.js":    m.StatusTransformed,
		"store.ts":  m.StatusTransformed,
		"plain.js":  m.StatusUnchanged,
		"broken.js": m.StatusFailed,
	}, statusByName(ui.reports))

	require.NotNil(t, ui.summary)
	assert.Equal(t, 4, ui.summary.Files)
	assert.Equal(t, 2, ui.summary.Transformed)
	assert.Equal(t, 1, ui.summary.Failed)
	assert.Equal(t, 2, ui.summary.Skipped)
	assert.Equal(t, 2, ui.summary.CallSites)
}

func TestWorkflow_RunIntoOutputDir(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "web")
	out := filepath.Join(root, "out")
	writeFile(t, filepath.Join(src, "a.js"), "localStorage.key(0);\n")
	writeFile(t, filepath.Join(src, "nested", "b.js"), "const x = 1;\n")

	wf, _ := newTestWorkflow()

	err := wf.Run(context.Background(), RunArgs{
		ProcessArgs: ProcessArgs{
			Paths:  []m.Path{m.Path(src + "/...")},
			Config: m.TransformConfig{Prefix: "w_", BaseDir: root},
		},
		Output: m.Path(out),
	})
	require.NoError(t, err)

	assert.Equal(t, "localStorage.key(\"w_\" + 0);\n", readFile(t, filepath.Join(out, "a.js")))
	assert.Equal(t, "const x = 1;\n", readFile(t, filepath.Join(out, "nested", "b.js")))
	assert.Equal(t, "localStorage.key(0);\n", readFile(t, filepath.Join(src, "a.js")))
}

func TestWorkflow_ListDoesNotWrite(t *testing.T) {
	root := newProject(t)
	wf, ui := newTestWorkflow()

	err := wf.List(context.Background(), ListArgs{
		ProcessArgs: ProcessArgs{
			Paths:  []m.Path{m.Path(filepath.Join(root, "src"))},
			Config: m.TransformConfig{BaseDir: root},
		},
		Format: m.FormatYAML,
	})
	require.ErrorIs(t, err, ErrFilesFailed)

	assert.Equal(t, m.FormatYAML, ui.format)
	assert.Nil(t, ui.summary)
	assert.Equal(t, "localStorage.getItem('a');\n", readFile(t, filepath.Join(root, "src", "app.js")))

	for _, report := range ui.reports {
		if filepath.Base(string(report.Path)) == "app.js" {
			require.Len(t, report.CallSites, 1)
			assert.Equal(t, "getItem", report.CallSites[0].Method)
			assert.Equal(t, "'a'", report.CallSites[0].FirstArgument.Text)
		}
	}
}

func TestWorkflow_Diff(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "const a = 1;\nlocalStorage.removeItem('x');\n")
	writeFile(t, filepath.Join(root, "b.js"), "const b = 2;\n")

	wf, ui := newTestWorkflow()

	err := wf.Diff(context.Background(), DiffArgs{ProcessArgs: ProcessArgs{
		Paths:  []m.Path{m.Path(root)},
		Config: m.TransformConfig{BaseDir: root},
	}})
	require.NoError(t, err)

	require.Len(t, ui.diffs, 1)

	diff := ui.diffs[m.Path(filepath.Join(root, "a.js"))]
	assert.Contains(t, diff, "-localStorage.removeItem('x');")
	assert.Contains(t, diff, "+localStorage.removeItem(\"_\" + 'x');")
	require.NotNil(t, ui.summary)
	assert.Equal(t, 1, ui.summary.Transformed)
	assert.Equal(t, 1, ui.summary.Unchanged)
}

func TestWorkflow_SingleFileAndDuplicates(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "one.js")
	writeFile(t, file, "localStorage.getItem(k);\n")

	wf, ui := newTestWorkflow()

	err := wf.List(context.Background(), ListArgs{ProcessArgs: ProcessArgs{
		Paths:  []m.Path{m.Path(file), m.Path(file), m.Path(root)},
		Config: m.TransformConfig{BaseDir: root},
	}})
	require.NoError(t, err)

	require.Len(t, ui.reports, 1)
	assert.Equal(t, m.FormatTable, ui.format)
}

func TestWorkflow_MissingPath(t *testing.T) {
	wf, _ := newTestWorkflow()

	err := wf.List(context.Background(), ListArgs{ProcessArgs: ProcessArgs{
		Paths: []m.Path{m.Path(filepath.Join(t.TempDir(), "missing"))},
	}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFilesFailed)
}

func TestWorkflow_CancelledContext(t *testing.T) {
	root := newProject(t)
	wf, _ := newTestWorkflow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := wf.List(ctx, ListArgs{ProcessArgs: ProcessArgs{
		Paths:  []m.Path{m.Path(root + "/...")},
		Config: m.TransformConfig{BaseDir: root},
	}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParsePathPattern(t *testing.T) {
	tests := []struct {
		in        m.Path
		root      m.Path
		recursive bool
	}{
		{"...", ".", true},
		{"./...", ".", true},
		{"src/...", "src", true},
		{"src", "src", false},
		{"src/app.js", "src/app.js", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			root, recursive := parsePathPattern(tt.in)
			assert.Equal(t, tt.root, root)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}

func TestWorkflow_ExampleFixtures(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	wf, ui := newTestWorkflow()

	err = wf.List(context.Background(), ListArgs{ProcessArgs: ProcessArgs{
		Paths:   []m.Path{m.Path(filepath.Join("..", "..", "examples") + "/...")},
		Config:  m.TransformConfig{BaseDir: cwd},
		Threads: 4,
	}})
	require.ErrorIs(t, err, ErrFilesFailed)

	assert.Equal(t, map[string]m.FileStatus{
		"app.js":    m.StatusTransformed,
		"store.ts":  m.StatusTransformed,
		"App.tsx":   m.StatusTransformed,
		"broken.js": m.StatusFailed,
	}, statusByName(ui.reports))

	summary := m.Summarize(ui.reports, 0)
	assert.Equal(t, 8, summary.CallSites)
}
