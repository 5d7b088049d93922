package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		icon   string
	}{
		{"title", RenderTitle, ""},
		{"subtitle", RenderSubtitle, ""},
		{"error", RenderError, IconCross},
		{"warning", RenderWarning, IconWarning},
		{"success", RenderSuccess, IconCheck},
		{"info", RenderInfo, IconInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ansi.Strip(tt.render("Message text"))

			if !strings.Contains(result, "Message text") {
				t.Errorf("expected rendered %s to contain the text, got %q", tt.name, result)
			}
			if tt.icon != "" && !strings.Contains(result, tt.icon) {
				t.Errorf("expected rendered %s to contain icon %q", tt.name, tt.icon)
			}
		})
	}
}

func TestRenderStatus(t *testing.T) {
	if got := ansi.Strip(RenderStatus(true)); !strings.Contains(got, "PASSED") {
		t.Errorf("expected PASSED, got %q", got)
	}
	if got := ansi.Strip(RenderStatus(false)); !strings.Contains(got, "FAILED") {
		t.Errorf("expected FAILED, got %q", got)
	}
}

func TestRenderKeyBinding(t *testing.T) {
	result := ansi.Strip(RenderKeyBinding("ctrl+c", "quit"))

	if !strings.Contains(result, "ctrl+c") || !strings.Contains(result, "quit") {
		t.Errorf("expected key and description, got %q", result)
	}
}

func TestHelpBar(t *testing.T) {
	result := ansi.Strip(HelpBar(60, "s", "save", "c", "copy", "dangling"))

	if !strings.Contains(result, "s save") || !strings.Contains(result, "c copy") {
		t.Errorf("expected both bindings, got %q", result)
	}
	if strings.Contains(result, "dangling") {
		t.Error("an unpaired key should be ignored")
	}
}

func TestStatusBox(t *testing.T) {
	result := ansi.Strip(StatusBox("All records passed", ColorSuccess, 40))

	if !strings.Contains(result, "All records passed") {
		t.Errorf("expected box text, got %q", result)
	}
	if !strings.Contains(result, "╭") {
		t.Error("expected a rounded border")
	}
}

func TestPanelWidth(t *testing.T) {
	tests := []struct {
		term, want int
	}{
		{80, 72},
		{120, 112},
		{30, 40},
	}

	for _, tt := range tests {
		if got := PanelWidth(tt.term); got != tt.want {
			t.Errorf("PanelWidth(%d) = %d, want %d", tt.term, got, tt.want)
		}
	}
}

func TestRenderTable_Simple(t *testing.T) {
	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"Total", "10"},
		{"Failed", "2"},
	}

	plain := ansi.Strip(RenderTable(headers, rows))

	if !strings.Contains(plain, "Metric") || !strings.Contains(plain, "Value") {
		t.Error("expected table to contain headers")
	}

	lines := strings.Split(strings.TrimSpace(plain), "\n")
	if len(lines) < len(rows)+1 {
		t.Errorf("expected %d rows plus header, got %d lines", len(rows), len(lines))
	}
}

func TestRenderTable_WidestCellsStayOnOneLine(t *testing.T) {
	rows := [][]string{
		{"Total Files Processed", "3"},
		{"Duration", "250ms"},
	}

	plain := ansi.Strip(RenderTable([]string{"Metric", "Value"}, rows))
	lines := strings.Split(plain, "\n")

	// Header, its underline, then one line per row.
	if len(lines) != len(rows)+2 {
		t.Fatalf("expected %d lines, got %d:\n%s", len(rows)+2, len(lines), plain)
	}
	if !strings.Contains(lines[2], "Total Files Processed") || !strings.Contains(lines[2], "3") {
		t.Errorf("expected first row on one line, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "250ms") {
		t.Errorf("expected duration on one line, got %q", lines[3])
	}
}

func TestRenderTable_EmptyRows(t *testing.T) {
	plain := ansi.Strip(RenderTable([]string{"Column1", "Column2"}, nil))

	if !strings.Contains(plain, "Column1") {
		t.Error("expected table to contain header even with no rows")
	}
}

func TestRenderTable_UnevenRows(t *testing.T) {
	headers := []string{"A", "B", "C"}
	rows := [][]string{
		{"1", "2"},
		{"3", "4", "5"},
		{"6", "7", "8", "9"},
	}

	plain := ansi.Strip(RenderTable(headers, rows))
	if strings.Contains(plain, "9") {
		t.Error("cells beyond the header count should be ignored")
	}
}

func TestAdaptToTerminal(t *testing.T) {
	original := BorderStyle
	defer func() { BorderStyle = original }()

	AdaptToTerminal(50, 20)
	if BorderStyle.GetPaddingLeft() != 1 {
		t.Errorf("expected narrow padding, got %d", BorderStyle.GetPaddingLeft())
	}

	AdaptToTerminal(120, 40)
	if BorderStyle.GetPaddingLeft() != 2 {
		t.Errorf("expected wide padding, got %d", BorderStyle.GetPaddingLeft())
	}
}

func TestIcons(t *testing.T) {
	for _, icon := range []string{IconCheck, IconCross, IconWarning, IconInfo, IconArrow} {
		if icon == "" {
			t.Error("expected icon to be defined")
		}
	}
	if len([]rune(IconSpinner)) != 8 {
		t.Errorf("expected 8 spinner frames, got %d", len([]rune(IconSpinner)))
	}
}
