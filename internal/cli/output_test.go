package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/report"
	"github.com/petergi/cup-validator-cli/internal/validator"
)

var generatedAt = time.Date(2026, 3, 4, 9, 5, 7, 0, time.UTC)

func passingOutcome() report.Outcome {
	return report.Outcome{
		FileName: "good.xml",
		ISBN:     "9780000000001",
		Title:    "Good Book",
		Checks: []validator.CheckResult{
			{Name: validator.CheckRequiredFields, Passed: true, Message: "All required fields are present and have values"},
			{Name: validator.CheckBindingStyle, Passed: true, Message: "Valid binding: Cased"},
		},
	}
}

func failingOutcome() report.Outcome {
	return report.Outcome{
		FileName: "bad.xml",
		ISBN:     "9780000000002",
		Checks: []validator.CheckResult{
			{Name: validator.CheckRequiredFields, Passed: true, Message: "All required fields are present and have values"},
			{Name: validator.CheckBindingStyle, Passed: false, Message: "Invalid binding: 'Spiral' (must be Cased or Limp)"},
		},
	}
}

func sampleBatch() *operations.BatchResult {
	result := operations.AggregateResults([]report.Outcome{passingOutcome(), failingOutcome()}, 1500*time.Millisecond)
	return &result
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"xml", FormatText, true},
		{"", FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatText, true).(*TextFormatter); !ok {
		t.Error("expected TextFormatter")
	}
	if _, ok := NewFormatter(FormatJSON, true).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatMarkdown, true).(*MarkdownFormatter); !ok {
		t.Error("expected MarkdownFormatter")
	}
}

func TestTextFormatter_FormatOutcome(t *testing.T) {
	f := &TextFormatter{}
	got := f.FormatOutcome(failingOutcome())

	if got != report.FormatRecordSummary(failingOutcome()) {
		t.Errorf("uncoloured output should equal the record summary, got:\n%s", got)
	}
	if !strings.Contains(got, "✗ Binding Style: Invalid binding") {
		t.Errorf("expected failed check line, got:\n%s", got)
	}
}

func TestTextFormatter_FormatBatch(t *testing.T) {
	f := &TextFormatter{}
	result := sampleBatch()

	got := f.FormatBatch(result, generatedAt, false)
	if got != report.FormatReport(result.Outcomes, generatedAt) {
		t.Errorf("uncoloured batch should equal the plain report, got:\n%s", got)
	}

	summary := f.FormatBatch(result, generatedAt, true)
	if summary != report.FormatSummary(result.Summary) {
		t.Errorf("summary-only output mismatch:\n%s", summary)
	}
}

func TestTextFormatter_FilteredKeepsSummary(t *testing.T) {
	f := &TextFormatter{}
	filtered := (&StatusFilter{FailedOnly: true}).FilterResult(sampleBatch())

	got := f.FormatBatch(filtered, generatedAt, false)
	if !strings.Contains(got, "Total Files Processed: 2") {
		t.Errorf("expected summary of the whole batch, got:\n%s", got)
	}
	if strings.Contains(got, "Good Book") {
		t.Errorf("passing record should not be listed:\n%s", got)
	}
}

func TestTextFormatter_Colorize(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	f := &TextFormatter{ColorEnabled: true}
	got := f.FormatOutcome(failingOutcome())

	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in coloured output, got:\n%s", got)
	}
	if !strings.Contains(got, color.RedString("Failed")) {
		t.Errorf("expected red status, got:\n%s", got)
	}
	if !strings.Contains(got, color.GreenString("✓")+" Required Fields") {
		t.Errorf("expected green pass glyph, got:\n%s", got)
	}
}

func TestJSONFormatter_FormatOutcome(t *testing.T) {
	f := &JSONFormatter{}
	got := f.FormatOutcome(failingOutcome())

	var parsed struct {
		Label   string         `json:"label"`
		Passed  bool           `json:"passed"`
		Outcome report.Outcome `json:"outcome"`
	}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, got)
	}
	if parsed.Label != "9780000000002" || parsed.Passed {
		t.Errorf("unexpected label/passed: %+v", parsed)
	}
	if len(parsed.Outcome.Checks) != 2 || parsed.Outcome.Checks[1].Passed {
		t.Errorf("unexpected checks: %+v", parsed.Outcome.Checks)
	}
}

func TestJSONFormatter_FormatBatch(t *testing.T) {
	f := &JSONFormatter{}
	result := sampleBatch()

	var full map[string]json.RawMessage
	if err := json.Unmarshal([]byte(f.FormatBatch(result, generatedAt, false)), &full); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"run_id", "generated", "summary", "duration", "outcomes"} {
		if _, ok := full[key]; !ok {
			t.Errorf("expected key %q", key)
		}
	}
	if string(full["duration"]) != "1500" {
		t.Errorf("expected duration in ms, got %s", full["duration"])
	}
	if string(full["generated"]) != `"2026-03-04T09:05:07Z"` {
		t.Errorf("unexpected generated time %s", full["generated"])
	}

	var summary map[string]json.RawMessage
	if err := json.Unmarshal([]byte(f.FormatBatch(result, generatedAt, true)), &summary); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := summary["outcomes"]; ok {
		t.Error("summary-only output should omit outcomes")
	}
}

func TestMarkdownFormatter_FormatOutcome(t *testing.T) {
	f := &MarkdownFormatter{}
	got := f.FormatOutcome(passingOutcome())

	for _, want := range []string{
		"# Validation Report",
		"## 9780000000001",
		"**Title:** Good Book",
		"**File:** `good.xml`",
		"**Status:** ✅ Passed",
		"| Binding Style | ✅ | Valid binding: Cased |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestMarkdownFormatter_FormatBatch(t *testing.T) {
	f := &MarkdownFormatter{}
	result := sampleBatch()

	got := f.FormatBatch(result, generatedAt, false)
	for _, want := range []string{
		"# CUP XML Validation Report",
		"_Generated 2026-03-04 09:05:07_",
		"| Total Files | 2 |",
		"| Failed | 1 |",
		"| Duration | 1.5s |",
		"**Status:** ❌ 1 file(s) failed",
		"## Results",
		"### 9780000000002",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}

	if strings.Contains(f.FormatBatch(result, generatedAt, true), "## Results") {
		t.Error("summary-only output should omit results")
	}
}

func TestEscapeCell(t *testing.T) {
	if got := escapeCell("a|b"); got != `a\|b` {
		t.Errorf("escapeCell = %q", got)
	}
}

func TestWriteOutput(t *testing.T) {
	var b strings.Builder
	if err := WriteOutput(&b, "hello"); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}
	if b.String() != "hello" {
		t.Errorf("expected hello, got %q", b.String())
	}
}
