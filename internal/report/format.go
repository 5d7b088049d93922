package report

import (
	"fmt"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	filenameLayout  = "2006-01-02"

	glyphPass = "✓"
	glyphFail = "✗"
)

var (
	heavyRule = strings.Repeat("=", 80)
	lightRule = strings.Repeat("-", 80)
	shortRule = strings.Repeat("-", 40)
)

// FormatReport renders outcomes as the downloadable plain-text report.
// The output depends only on outcomes and generatedAt. An empty batch
// renders as "".
func FormatReport(outcomes []Outcome, generatedAt time.Time) string {
	return FormatListing(outcomes, Summarize(outcomes), generatedAt)
}

// FormatListing renders the report layout with a caller-supplied summary,
// for listings that show only part of a batch.
func FormatListing(outcomes []Outcome, summary Summary, generatedAt time.Time) string {
	if len(outcomes) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintln(&b, "CUP XML VALIDATION ERROR REPORT")
	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format(timestampLayout))

	b.WriteString(FormatSummary(summary))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "VALIDATION RESULTS")
	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintln(&b)

	for i, o := range outcomes {
		writeOutcome(&b, i+1, o)
	}

	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintln(&b, "End of Report")
	fmt.Fprintln(&b, heavyRule)

	return b.String()
}

// FormatSummary renders the SUMMARY block of the report.
func FormatSummary(s Summary) string {
	var b strings.Builder
	fmt.Fprintln(&b, "SUMMARY")
	fmt.Fprintln(&b, shortRule)
	fmt.Fprintf(&b, "Total Files Processed: %d\n", s.Total)
	fmt.Fprintf(&b, "Files Passed: %d\n", s.Passed)
	fmt.Fprintf(&b, "Files Failed: %d\n", s.Failed)
	return b.String()
}

func writeOutcome(b *strings.Builder, n int, o Outcome) {
	isbn := o.ISBN
	if isbn == "" {
		isbn = "N/A"
	}

	fmt.Fprintf(b, "%d. ISBN: %s\n", n, isbn)
	if o.Title != "" {
		fmt.Fprintf(b, "   Title: %s\n", o.Title)
	}
	fmt.Fprintf(b, "   Status: %s\n", status(o, "PASSED", "FAILED"))
	if o.FileName != "" {
		fmt.Fprintf(b, "   File: %s\n", o.FileName)
	}
	fmt.Fprintln(b, lightRule)

	total := len(o.Checks)
	passed := o.PassedCount()
	fmt.Fprintf(b, "   Tests: %d/%d passed", passed, total)
	if failed := total - passed; failed > 0 {
		fmt.Fprintf(b, " (%d failed)", failed)
	}
	fmt.Fprintln(b)

	if failed := o.FailedChecks(); len(failed) > 0 {
		fmt.Fprintln(b, "   Failed Tests:")
		for _, c := range failed {
			fmt.Fprintf(b, "   %s %s: %s\n", glyphFail, c.Name, c.Message)
		}
	}
	fmt.Fprintln(b)
}

// FormatRecordSummary renders one outcome for the clipboard.
func FormatRecordSummary(o Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Validation Results for ISBN: %s\n", o.Label())
	if o.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", o.Title)
	}
	fmt.Fprintf(&b, "Status: %s\n", status(o, "Passed", "Failed"))
	fmt.Fprintln(&b, shortRule)
	for _, c := range o.Checks {
		glyph := glyphPass
		if !c.Passed {
			glyph = glyphFail
		}
		fmt.Fprintf(&b, "%s %s: %s\n", glyph, c.Name, c.Message)
	}
	fmt.Fprintln(&b, shortRule)
	return b.String()
}

// Filename returns the report download name for the day of t.
func Filename(t time.Time) string {
	return "cup_validation_summary_" + t.Format(filenameLayout) + ".txt"
}

func status(o Outcome, pass, fail string) string {
	if o.Passed() {
		return pass
	}
	return fail
}
