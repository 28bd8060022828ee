package model

// FileStatus is the outcome of processing one eligible file.
type FileStatus int

const (
	// StatusTransformed means at least one call site was rewritten.
	StatusTransformed FileStatus = iota
	// StatusUnchanged means the file parsed but had no call sites.
	StatusUnchanged
	// StatusFailed means the file could not be read, parsed or printed.
	StatusFailed
)

func (s FileStatus) String() string {
	switch s {
	case StatusTransformed:
		return "transformed"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	}

	return "unknown"
}

// MarshalYAML renders the status by name.
func (s FileStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// FileReport records what the pipeline did with one file.
type FileReport struct {
	Path      Path       `yaml:"path"`
	Status    FileStatus `yaml:"status"`
	CallSites []CallSite `yaml:"call_sites,omitempty"`
	Error     string     `yaml:"error,omitempty"`
}

// Summary aggregates a batch of reports.
type Summary struct {
	Files       int
	Transformed int
	Unchanged   int
	Failed      int
	Skipped     int
	CallSites   int
}

// Summarize counts reports by status. skipped is the number of files the
// inclusion filter rejected.
func Summarize(reports []FileReport, skipped int) Summary {
	summary := Summary{Files: len(reports), Skipped: skipped}

	for _, report := range reports {
		switch report.Status {
		case StatusTransformed:
			summary.Transformed++
		case StatusUnchanged:
			summary.Unchanged++
		case StatusFailed:
			summary.Failed++
		}

		summary.CallSites += len(report.CallSites)
	}

	return summary
}

// ReportFormat selects how reports are rendered.
type ReportFormat string

const (
	// FormatTable renders a human-readable table.
	FormatTable ReportFormat = "table"
	// FormatYAML renders reports as a YAML document.
	FormatYAML ReportFormat = "yaml"
)
