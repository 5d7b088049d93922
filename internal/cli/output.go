package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/report"
)

// OutputFormat represents the type of output format
type OutputFormat int

const (
	FormatText OutputFormat = iota
	FormatJSON
	FormatMarkdown
)

// ParseFormat converts a string to OutputFormat
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return FormatText, fmt.Errorf("invalid format: %s (valid: text, json, markdown)", s)
	}
}

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatOutcome(outcome report.Outcome) string
	FormatBatch(result *operations.BatchResult, generatedAt time.Time, summaryOnly bool) string
}

// NewFormatter creates a formatter based on format and options
func NewFormatter(format OutputFormat, colorEnabled bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TextFormatter{ColorEnabled: colorEnabled}
	}
}

// TextFormatter renders the plain-text report, optionally coloured.
type TextFormatter struct {
	ColorEnabled bool
}

func (f *TextFormatter) FormatOutcome(outcome report.Outcome) string {
	return f.colorize(report.FormatRecordSummary(outcome))
}

func (f *TextFormatter) FormatBatch(result *operations.BatchResult, generatedAt time.Time, summaryOnly bool) string {
	if summaryOnly || len(result.Outcomes) == 0 {
		return report.FormatSummary(result.Summary)
	}
	return f.colorize(report.FormatListing(result.Outcomes, result.Summary, generatedAt))
}

// colorize highlights status words and check glyphs line by line.
func (f *TextFormatter) colorize(s string) string {
	if !f.ColorEnabled {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		switch {
		case trimmed == "Status: PASSED" || trimmed == "Status: Passed":
			lines[i] = indent + "Status: " + f.success(strings.TrimPrefix(trimmed, "Status: "))
		case trimmed == "Status: FAILED" || trimmed == "Status: Failed":
			lines[i] = indent + "Status: " + f.error(strings.TrimPrefix(trimmed, "Status: "))
		case strings.HasPrefix(trimmed, "✓ "):
			lines[i] = indent + f.success("✓") + trimmed[len("✓"):]
		case strings.HasPrefix(trimmed, "✗ "):
			lines[i] = indent + f.error("✗") + trimmed[len("✗"):]
		case strings.HasPrefix(trimmed, "CUP XML VALIDATION ERROR REPORT"),
			trimmed == "SUMMARY", trimmed == "VALIDATION RESULTS":
			lines[i] = indent + f.header(trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

func (f *TextFormatter) header(s string) string {
	return color.New(color.Bold, color.FgCyan).Sprint(s)
}

func (f *TextFormatter) success(s string) string {
	return color.GreenString(s)
}

func (f *TextFormatter) error(s string) string {
	return color.RedString(s)
}

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

func (f *JSONFormatter) FormatOutcome(outcome report.Outcome) string {
	output := map[string]interface{}{
		"label":   outcome.Label(),
		"passed":  outcome.Passed(),
		"outcome": outcome,
	}
	return marshal(output, "outcome")
}

func (f *JSONFormatter) FormatBatch(result *operations.BatchResult, generatedAt time.Time, summaryOnly bool) string {
	output := map[string]interface{}{
		"run_id":    result.RunID,
		"generated": generatedAt.Format(time.RFC3339),
		"summary":   result.Summary,
		"duration":  result.Duration.Milliseconds(),
	}

	if !summaryOnly {
		output["outcomes"] = result.Outcomes
	}

	return marshal(output, "batch result")
}

func marshal(v interface{}, what string) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal %s: %s"}`, what, err)
	}
	return string(data) + "\n"
}

// MarkdownFormatter formats output as GitHub-flavored Markdown
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) FormatOutcome(outcome report.Outcome) string {
	var b strings.Builder

	b.WriteString("# Validation Report\n\n")
	f.writeOutcome(&b, outcome, "##")
	return b.String()
}

func (f *MarkdownFormatter) writeOutcome(b *strings.Builder, outcome report.Outcome, heading string) {
	fmt.Fprintf(b, "%s %s\n\n", heading, outcome.Label())
	if outcome.Title != "" {
		fmt.Fprintf(b, "**Title:** %s\n\n", outcome.Title)
	}
	if outcome.FileName != "" {
		fmt.Fprintf(b, "**File:** `%s`\n\n", outcome.FileName)
	}
	if outcome.Passed() {
		b.WriteString("**Status:** ✅ Passed\n\n")
	} else {
		b.WriteString("**Status:** ❌ Failed\n\n")
	}

	b.WriteString("| Check | Result | Message |\n")
	b.WriteString("|-------|--------|---------|\n")
	for _, c := range outcome.Checks {
		result := "✅"
		if !c.Passed {
			result = "❌"
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", c.Name, result, escapeCell(c.Message))
	}
	b.WriteString("\n")
}

func (f *MarkdownFormatter) FormatBatch(result *operations.BatchResult, generatedAt time.Time, summaryOnly bool) string {
	var b strings.Builder

	b.WriteString("# CUP XML Validation Report\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Total Files | %d |\n", result.Summary.Total)
	fmt.Fprintf(&b, "| Passed | %d |\n", result.Summary.Passed)
	fmt.Fprintf(&b, "| Failed | %d |\n", result.Summary.Failed)
	fmt.Fprintf(&b, "| Duration | %s |\n\n", result.Duration.Round(time.Millisecond))

	if result.Summary.Failed == 0 {
		b.WriteString("**Status:** ✅ All files passed\n\n")
	} else {
		fmt.Fprintf(&b, "**Status:** ❌ %d file(s) failed\n\n", result.Summary.Failed)
	}

	if !summaryOnly && len(result.Outcomes) > 0 {
		b.WriteString("## Results\n\n")
		for _, o := range result.Outcomes {
			f.writeOutcome(&b, o, "###")
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteOutput writes formatted output to a writer
func WriteOutput(w io.Writer, content string) error {
	_, err := fmt.Fprint(w, content)
	return err
}
