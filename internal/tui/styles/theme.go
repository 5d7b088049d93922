package styles

import "github.com/charmbracelet/lipgloss"

// Semantic Colors
var (
	ColorError   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E06C75"} // Red
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B7950B", Dark: "#E5C07B"} // Yellow
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#98C379"} // Green
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#2471A3", Dark: "#61AFEF"} // Blue
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#7D3C98", Dark: "#C678DD"} // Press purple
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#707B7C", Dark: "#5C6370"} // Gray
)

// Base Styles
var (
	BaseStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ErrorStyle = BaseStyle.
			Foreground(ColorError).
			Bold(true)

	WarningStyle = BaseStyle.
			Foreground(ColorWarning)

	SuccessStyle = BaseStyle.
			Foreground(ColorSuccess).
			Bold(true)

	InfoStyle = BaseStyle.
			Foreground(ColorInfo)

	MutedStyle = BaseStyle.
			Foreground(ColorMuted)
)

// Component Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			MarginBottom(1).
			Padding(0, 1)

	// BorderStyle frames lists and menus.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedListItemStyle = ListItemStyle.
				Foreground(ColorPrimary).
				Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	DescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorMuted)

	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// Icon strings (using Unicode symbols)
const (
	IconCheck   = "✓"
	IconCross   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconArrow   = "→"
	IconSpinner = "⣾⣽⣻⢿⡿⣟⣯⣷"
)

// PanelWidth is the width used by boxed content on a terminal of the given width.
func PanelWidth(termWidth int) int {
	w := termWidth - 8
	if w < 40 {
		return 40
	}
	return w
}

func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

func RenderError(text string) string {
	return ErrorStyle.Render(IconCross + " " + text)
}

func RenderWarning(text string) string {
	return WarningStyle.Render(IconWarning + " " + text)
}

func RenderSuccess(text string) string {
	return SuccessStyle.Render(IconCheck + " " + text)
}

func RenderInfo(text string) string {
	return InfoStyle.Render(IconInfo + " " + text)
}

// RenderStatus renders the pass/fail word used for records and batches.
func RenderStatus(passed bool) string {
	if passed {
		return SuccessStyle.Render("PASSED")
	}
	return ErrorStyle.Render("FAILED")
}

// RenderKeyBinding renders a keyboard shortcut
func RenderKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + DescStyle.Render(desc)
}

// StatusBox renders text in a rounded box drawn in color.
func StatusBox(text string, color lipgloss.AdaptiveColor, width int) string {
	return lipgloss.NewStyle().
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(width).
		Render(text)
}

// HelpBar renders key bindings under a thin rule.
func HelpBar(width int, bindings ...string) string {
	var text string
	for i := 0; i+1 < len(bindings); i += 2 {
		if text != "" {
			text += "  "
		}
		text += RenderKeyBinding(bindings[i], bindings[i+1])
	}
	return lipgloss.NewStyle().
		Foreground(ColorMuted).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(ColorMuted).
		Padding(1, 2).
		Width(width).
		Render(text)
}

// RenderTable renders a simple table with headers and rows
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var headerCells []string
	for i, h := range headers {
		w := widths[i] + TableHeaderStyle.GetHorizontalPadding()
		headerCells = append(headerCells, TableHeaderStyle.Width(w).Render(h))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)

	var rowStrs []string
	for _, row := range rows {
		var cells []string
		for i, cell := range row {
			if i < len(widths) {
				w := widths[i] + TableCellStyle.GetHorizontalPadding()
				cells = append(cells, TableCellStyle.Width(w).Render(cell))
			}
		}
		rowStrs = append(rowStrs, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	parts := append([]string{header}, rowStrs...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// AdaptToTerminal narrows boxed styles on small terminals.
func AdaptToTerminal(width, height int) {
	if width < 60 {
		BorderStyle = BorderStyle.Padding(0, 1)
	} else {
		BorderStyle = BorderStyle.Padding(1, 2)
	}
}
