package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/report"
)

// StatusFilter selects which outcomes are listed in a batch report.
// The summary always counts every outcome.
type StatusFilter struct {
	FailedOnly bool
}

// FilterResult returns a copy of result listing only the selected outcomes.
func (f *StatusFilter) FilterResult(result *operations.BatchResult) *operations.BatchResult {
	if result == nil {
		return nil
	}
	if f == nil || !f.FailedOnly {
		return result
	}

	filtered := *result
	filtered.Outcomes = make([]report.Outcome, 0, len(result.Failed))
	filtered.Outcomes = append(filtered.Outcomes, result.Failed...)
	filtered.Passed = make([]report.Outcome, 0)
	return &filtered
}

// ReportOptions contains options for report generation
type ReportOptions struct {
	Formatter    Formatter
	Filter       *StatusFilter
	OutputPath   string
	ColorEnabled bool
	SummaryOnly  bool
	Stdout       io.Writer
	Now          func() time.Time
}

// NewReportOptions creates report options from flags
func NewReportOptions(flags *RootFlags) (*ReportOptions, error) {
	format, err := ParseFormat(flags.Format)
	if err != nil {
		return nil, err
	}

	// Disable color for file output or structured formats
	colorEnabled := flags.Color
	if flags.Output != "" || format != FormatText {
		colorEnabled = false
	}

	return &ReportOptions{
		Formatter:    NewFormatter(format, colorEnabled),
		Filter:       &StatusFilter{},
		OutputPath:   flags.Output,
		ColorEnabled: colorEnabled,
		Stdout:       flags.stdout(),
		Now:          time.Now,
	}, nil
}

// WriteOutcomeReport writes a formatted single-file result
func WriteOutcomeReport(outcome report.Outcome, opts *ReportOptions) error {
	return opts.write(opts.Formatter.FormatOutcome(outcome))
}

// WriteBatchReport writes a formatted batch result
func WriteBatchReport(result *operations.BatchResult, opts *ReportOptions) error {
	if result == nil {
		return fmt.Errorf("no batch result to write")
	}

	filtered := opts.Filter.FilterResult(result)
	content := opts.Formatter.FormatBatch(filtered, opts.Now(), opts.SummaryOnly)
	return opts.write(content)
}

func (opts *ReportOptions) write(content string) error {
	if opts.OutputPath != "" {
		return os.WriteFile(opts.OutputPath, []byte(content), 0644)
	}
	w := opts.Stdout
	if w == nil {
		w = os.Stdout
	}
	return WriteOutput(w, content)
}
