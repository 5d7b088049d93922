package models

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/report"
	"github.com/petergi/cup-validator-cli/internal/tui/styles"
)

// ReportFilter selects which records the report lists.
type ReportFilter int

const (
	FilterAll ReportFilter = iota
	FilterFailed
	FilterPassed
)

var filterLabels = []string{"1: All", "2: Failed", "3: Passed"}

// reportChrome is the number of lines taken by everything except the list.
const reportChrome = 30

// statusTimeout is how long save and copy notices stay visible.
const statusTimeout = 3 * time.Second

// ReportModel lists the outcomes of a batch and the checks of the
// selected record.
type ReportModel struct {
	result       *operations.BatchResult
	filter       ReportFilter
	selected     int
	viewportTop  int
	viewportSize int
	width        int
	height       int
	saveDir      string
	now          func() time.Time
	clipboard    io.Writer

	notice      string
	noticeErr   bool
	noticeToken int
	noticeShow  bool
}

// NewReportModel creates a report for result. Saved reports go to saveDir.
// When anything failed the report opens on the failed records.
func NewReportModel(result *operations.BatchResult, saveDir string, width, height int) ReportModel {
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	filter := FilterAll
	if result != nil && result.Summary.Failed > 0 {
		filter = FilterFailed
	}

	return ReportModel{
		result:       result,
		filter:       filter,
		width:        width,
		height:       height,
		viewportSize: reportViewport(height),
		saveDir:      saveDir,
		now:          time.Now,
		clipboard:    os.Stderr,
	}
}

// WithClipboard directs copied summaries to w instead of the terminal.
func (m ReportModel) WithClipboard(w io.Writer) ReportModel {
	m.clipboard = w
	return m
}

// WithClock replaces the clock used to date saved reports.
func (m ReportModel) WithClock(now func() time.Time) ReportModel {
	m.now = now
	return m
}

func reportViewport(height int) int {
	if size := height - reportChrome; size > 3 {
		return size
	}
	return 3
}

// Init initializes the model
func (m ReportModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state
func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewportSize = reportViewport(m.height)
		m.updateViewport()
		styles.AdaptToTerminal(m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.updateViewport()
			}

		case "down", "j":
			if m.selected < len(m.Visible())-1 {
				m.selected++
				m.updateViewport()
			}

		case "1", "2", "3":
			m.filter = ReportFilter(msg.String()[0] - '1')
			m.selected = 0
			m.viewportTop = 0

		case "s":
			return m, m.save()

		case "c":
			return m, m.copySelected()

		case "x":
			return m, func() tea.Msg { return ClearResultsMsg{} }

		case "enter", "esc":
			return m, func() tea.Msg { return BackToMenuMsg{} }

		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case ReportSaveMsg:
		if msg.Error != nil {
			return m.showNotice(fmt.Sprintf("%s Error saving report: %v", styles.IconCross, msg.Error), true)
		}
		return m.showNotice(fmt.Sprintf("%s Report saved to: %s", styles.IconCheck, hyperlink(msg.Path)), false)

	case ClipboardMsg:
		if msg.Error != nil {
			return m.showNotice(fmt.Sprintf("%s Could not copy: %v", styles.IconCross, msg.Error), true)
		}
		return m.showNotice(fmt.Sprintf("%s Copied summary for %s", styles.IconCheck, msg.Label), false)

	case ReportStatusTimeoutMsg:
		if msg.Token == m.noticeToken {
			m.noticeShow = false
		}
		return m, nil
	}

	return m, nil
}

func (m ReportModel) showNotice(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.notice = text
	m.noticeErr = isErr
	m.noticeShow = true
	m.noticeToken++
	token := m.noticeToken
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ReportStatusTimeoutMsg{Token: token}
	})
}

// save writes the full text report, whatever the current filter.
func (m ReportModel) save() tea.Cmd {
	if m.result == nil {
		return nil
	}
	dir, outcomes, at := m.saveDir, m.result.Outcomes, m.now()
	return func() tea.Msg {
		path, err := report.Save(dir, outcomes, at)
		if err != nil {
			return ReportSaveMsg{Error: err}
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return ReportSaveMsg{Path: path}
	}
}

// copySelected puts the selected record's summary on the clipboard via OSC 52.
func (m ReportModel) copySelected() tea.Cmd {
	o, ok := m.SelectedOutcome()
	if !ok {
		return nil
	}
	w := m.clipboard
	return func() tea.Msg {
		seq := osc52.New(report.FormatRecordSummary(o))
		switch {
		case os.Getenv("TMUX") != "":
			seq = seq.Tmux()
		case strings.HasPrefix(os.Getenv("TERM"), "screen"):
			seq = seq.Screen()
		}
		if _, err := seq.WriteTo(w); err != nil {
			return ClipboardMsg{Label: o.Label(), Error: err}
		}
		return ClipboardMsg{Label: o.Label()}
	}
}

// Visible returns the outcomes matching the current filter, in batch order.
func (m ReportModel) Visible() []report.Outcome {
	if m.result == nil {
		return nil
	}
	switch m.filter {
	case FilterFailed:
		return m.result.Failed
	case FilterPassed:
		return m.result.Passed
	default:
		return m.result.Outcomes
	}
}

// SelectedOutcome returns the outcome under the cursor.
func (m ReportModel) SelectedOutcome() (report.Outcome, bool) {
	visible := m.Visible()
	if m.selected >= 0 && m.selected < len(visible) {
		return visible[m.selected], true
	}
	return report.Outcome{}, false
}

func (m *ReportModel) updateViewport() {
	if m.selected < m.viewportTop {
		m.viewportTop = m.selected
	}
	if m.selected >= m.viewportTop+m.viewportSize {
		m.viewportTop = m.selected - m.viewportSize + 1
	}
	if m.viewportTop < 0 {
		m.viewportTop = 0
	}
}

// View renders the report
func (m ReportModel) View() string {
	if m.result == nil {
		return styles.RenderError("No results available")
	}

	width := styles.PanelWidth(m.width)
	summary := m.result.Summary

	var statusText string
	statusColor := styles.ColorSuccess
	if summary.Failed == 0 {
		statusText = fmt.Sprintf("%s  All %d record(s) passed", styles.IconCheck, summary.Total)
	} else {
		statusText = fmt.Sprintf("%s  %d of %d record(s) failed", styles.IconCross, summary.Failed, summary.Total)
		statusColor = styles.ColorError
	}

	table := styles.RenderTable([]string{"Metric", "Value"}, [][]string{
		{"Total Files Processed", fmt.Sprintf("%d", summary.Total)},
		{"Files Passed", fmt.Sprintf("%d", summary.Passed)},
		{"Files Failed", fmt.Sprintf("%d", summary.Failed)},
		{"Duration", m.result.Duration.Round(time.Millisecond).String()},
	})

	parts := []string{
		styles.RenderTitle("📋 Validation Results"),
		styles.StatusBox(statusText, statusColor, width),
		table,
		m.renderFilters(),
		styles.BorderStyle.Width(width).Height(m.viewportSize + 2).Render(m.renderList()),
		m.renderDetail(width),
	}
	if m.noticeShow {
		style := styles.SuccessStyle
		if m.noticeErr {
			style = styles.ErrorStyle
		}
		parts = append(parts, style.Render(ansi.Truncate(m.notice, width, "…")))
	}
	parts = append(parts, styles.HelpBar(width,
		"↑/↓", "select",
		"1-3", "filter",
		"s", "save report",
		"c", "copy summary",
		"x", "clear",
		"esc", "menu"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m ReportModel) renderFilters() string {
	var rendered []string
	for i, label := range filterLabels {
		if ReportFilter(i) == m.filter {
			rendered = append(rendered, styles.SelectedListItemStyle.Render(label))
		} else {
			rendered = append(rendered, styles.MutedStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m ReportModel) renderList() string {
	visible := m.Visible()
	if len(visible) == 0 {
		return styles.MutedStyle.Render("No records to display")
	}

	end := m.viewportTop + m.viewportSize
	if end > len(visible) {
		end = len(visible)
	}

	var lines []string
	if m.viewportTop > 0 {
		lines = append(lines, styles.MutedStyle.Render("↑ more ↑"))
	}
	for i := m.viewportTop; i < end; i++ {
		o := visible[i]
		icon, style := styles.IconCheck, styles.SuccessStyle
		if !o.Passed() {
			icon, style = styles.IconCross, styles.ErrorStyle
		}
		line := fmt.Sprintf("%s %s  %d/%d passed", icon, o.Label(), o.PassedCount(), len(o.Checks))
		if o.Title != "" {
			line += "  " + o.Title
		}
		if i == m.selected {
			line = styles.IconArrow + " " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, style.Render(line))
	}
	if end < len(visible) {
		lines = append(lines, styles.MutedStyle.Render("↓ more ↓"))
	}
	return strings.Join(lines, "\n")
}

func (m ReportModel) renderDetail(width int) string {
	o, ok := m.SelectedOutcome()
	if !ok {
		return ""
	}

	lines := []string{
		styles.SubtitleStyle.Render("ISBN: " + o.Label()),
		"Status: " + styles.RenderStatus(o.Passed()),
	}
	if o.FileName != "" && o.FileName != o.Label() {
		lines = append(lines, styles.MutedStyle.Render("File: "+o.FileName))
	}
	for _, c := range o.Checks {
		if c.Passed {
			lines = append(lines, styles.SuccessStyle.Render(styles.IconCheck+" "+c.Name)+" "+c.Message)
		} else {
			lines = append(lines, styles.ErrorStyle.Render(styles.IconCross+" "+c.Name)+" "+c.Message)
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorMuted).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// hyperlink wraps path in an OSC 8 file link.
func hyperlink(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return ansi.SetHyperlink("file://"+abs) + path + ansi.ResetHyperlink()
}

// ReportSaveMsg is sent when a report is saved
type ReportSaveMsg struct {
	Path  string
	Error error
}

// ClipboardMsg is sent after a record summary is copied.
type ClipboardMsg struct {
	Label string
	Error error
}

// ReportStatusTimeoutMsg hides a save or copy notice after a delay.
type ReportStatusTimeoutMsg struct {
	Token int
}

// ClearResultsMsg asks the app to discard the current results.
type ClearResultsMsg struct{}
