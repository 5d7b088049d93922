package models

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/tui/styles"
)

// ProgressModel displays a running batch and its completion screen.
type ProgressModel struct {
	source      string
	current     int
	total       int
	currentFile string
	startTime   time.Time
	width       int
	height      int
	spinner     int
	done        bool
	result      *operations.BatchResult
	err         error
	progress    progress.Model
}

// NewProgressModel creates a progress view for total records read from source.
func NewProgressModel(source string, total int, width, height int) ProgressModel {
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	return ProgressModel{
		source:    source,
		total:     total,
		startTime: time.Now(),
		width:     width,
		height:    height,
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(width-20),
			progress.WithoutPercentage(),
		),
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles messages and updates the model state
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		styles.AdaptToTerminal(m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		if !m.done {
			if msg.String() == "ctrl+c" {
				return m, func() tea.Msg { return OperationCancelMsg{} }
			}
			return m, nil
		}
		switch msg.String() {
		case "enter":
			if m.result == nil {
				return m, func() tea.Msg { return BackToMenuMsg{} }
			}
			result := m.result
			return m, func() tea.Msg { return ViewReportMsg{Result: result} }
		case "esc":
			return m, func() tea.Msg { return BackToMenuMsg{} }
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case TickMsg:
		if !m.done {
			m.spinner = (m.spinner + 1) % len([]rune(styles.IconSpinner))
			return m, m.tick()
		}

	case ProgressUpdateMsg:
		m.current = msg.Current
		m.currentFile = msg.CurrentFile
		if msg.Total > 0 {
			m.total = msg.Total
		}
		if m.total > 0 {
			return m, m.progress.SetPercent(float64(m.current) / float64(m.total))
		}
		return m, nil

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case OperationDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if m.result != nil {
			m.current = m.result.Summary.Total
		}
		return m, m.progress.SetPercent(1.0)
	}

	return m, nil
}

// View renders the progress display
func (m ProgressModel) View() string {
	if m.done {
		return m.renderDone()
	}

	width := styles.PanelWidth(m.width)
	frames := []rune(styles.IconSpinner)
	title := styles.RenderTitle(string(frames[m.spinner%len(frames)]) + "  Validating records")

	status := "🔍 Reading " + m.source
	if m.currentFile != "" {
		status = "🔍 Validating: " + filepath.Base(m.currentFile)
	}
	statusBox := styles.StatusBox(status, styles.ColorInfo, width)

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total) * 100
	}
	progressBox := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorPrimary).
		Padding(1, 2).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("Completed: %d / %d (%.0f%%)", m.current, m.total, percent),
			"",
			m.progress.View(),
		))

	elapsed := styles.MutedStyle.Render("Elapsed: " + time.Since(m.startTime).Round(time.Second).String())

	content := lipgloss.JoinVertical(lipgloss.Left,
		title, statusBox, "", progressBox, elapsed,
		styles.HelpBar(width, "ctrl+c", "cancel"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m ProgressModel) renderDone() string {
	var (
		heading string
		text    string
		color   lipgloss.AdaptiveColor
	)
	switch {
	case m.err != nil:
		heading = styles.IconCross + "  Validation stopped"
		text = m.err.Error()
		color = styles.ColorError
	case m.result == nil:
		heading = styles.IconInfo + "  Nothing to validate"
		text = "No records were produced."
		color = styles.ColorMuted
	case m.result.Summary.Failed == 0:
		heading = styles.IconCheck + "  Validation complete"
		text = fmt.Sprintf("All %d record(s) passed every check.", m.result.Summary.Total)
		color = styles.ColorSuccess
	default:
		heading = styles.IconCheck + "  Validation complete"
		text = fmt.Sprintf("%d record(s) checked: %d passed, %d failed.",
			m.result.Summary.Total, m.result.Summary.Passed, m.result.Summary.Failed)
		color = styles.ColorWarning
	}

	help := styles.HelpBar(60, "enter", "view results", "esc", "menu")
	if m.result == nil {
		help = styles.HelpBar(60, "enter", "menu")
	}

	parts := []string{
		styles.RenderTitle(heading),
		styles.StatusBox(text, color, 60),
	}
	if m.err == nil && m.result != nil {
		if m.result.Summary.Failed == 0 {
			parts = append(parts, styles.RenderSuccess("Batch ready for production"))
		} else {
			parts = append(parts, styles.RenderWarning("Press enter to review the failed records"))
		}
	}
	parts = append(parts,
		styles.MutedStyle.Render("Completed in: "+time.Since(m.startTime).Round(time.Millisecond).String()),
		help,
	)

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// Done reports whether the batch has finished.
func (m ProgressModel) Done() bool {
	return m.done
}

func (m ProgressModel) tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// TickMsg is sent periodically to update the spinner
type TickMsg time.Time

// ProgressUpdateMsg updates the progress display
type ProgressUpdateMsg struct {
	Current     int
	Total       int
	CurrentFile string
}

// OperationDoneMsg carries the finished batch, or the error that stopped it.
type OperationDoneMsg struct {
	Result *operations.BatchResult
	Err    error
}

// OperationCancelMsg signals that the user wants to cancel
type OperationCancelMsg struct{}

// ViewReportMsg asks the app to open the report for a batch.
type ViewReportMsg struct {
	Result *operations.BatchResult
}

// ConvertBatchProgress converts batch progress to progress message
func ConvertBatchProgress(update operations.ProgressUpdate) ProgressUpdateMsg {
	return ProgressUpdateMsg{
		Current:     update.Completed,
		Total:       update.Total,
		CurrentFile: update.Current,
	}
}
