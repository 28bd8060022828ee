package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

const maxKeysPerRow = 3

var (
	summaryStyle = lipgloss.NewStyle().Bold(true)
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// SimpleUI writes tables, diffs and summaries to the command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayReports renders per-file reports in the requested format.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.FileReport, format m.ReportFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch format {
	case m.FormatYAML:
		return renderYAML(s.out(), reports)
	case m.FormatTable, "":
		return s.printf("\n%s", renderReportTable(reports))
	}

	return fmt.Errorf("unsupported report format %q", format)
}

func renderYAML(w io.Writer, reports []m.FileReport) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if reports == nil {
		reports = []m.FileReport{}
	}

	if err := encoder.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	return encoder.Close()
}

func renderReportTable(reports []m.FileReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Status", "Call Sites", "Keys"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	totalSites := 0

	for _, report := range reports {
		detail := summarizeKeys(report.CallSites)
		if report.Status == m.StatusFailed {
			detail = report.Error
		}

		table.Append([]string{
			string(report.Path),
			report.Status.String(),
			fmt.Sprintf("%d", len(report.CallSites)),
			detail,
		})

		totalSites += len(report.CallSites)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(reports)),
		"",
		fmt.Sprintf("%d", totalSites),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func summarizeKeys(sites []m.CallSite) string {
	keys := make([]string, 0, maxKeysPerRow)

	for i, site := range sites {
		if i == maxKeysPerRow {
			keys = append(keys, fmt.Sprintf("+%d more", len(sites)-maxKeysPerRow))
			break
		}

		keys = append(keys, fmt.Sprintf("%s(%s)", site.Method, site.FirstArgument.Text))
	}

	return strings.Join(keys, ", ")
}

// DisplayDiff prints a unified diff for one file.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		return nil
	}

	if !strings.HasSuffix(diff, "\n") {
		diff += "\n"
	}

	_, err := io.WriteString(s.out(), diff)
	if err != nil {
		return fmt.Errorf("write diff for %s: %w", path, err)
	}

	return nil
}

// DisplaySummary prints the totals line.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line := fmt.Sprintf("Processed %d file(s): %d transformed, %d unchanged, %d failed, %d skipped; %d call site(s) rewritten",
		summary.Files, summary.Transformed, summary.Unchanged, summary.Failed, summary.Skipped, summary.CallSites)

	style := summaryStyle
	if summary.Failed > 0 {
		style = failureStyle
	}

	return s.printf("%s\n", style.Render(line))
}

func (s *SimpleUI) out() io.Writer {
	return s.cmd.OutOrStdout()
}

func (s *SimpleUI) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(s.out(), format, args...)
	return err
}
