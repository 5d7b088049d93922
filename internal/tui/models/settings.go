package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/petergi/cup-validator-cli/internal/tui/styles"
)

const (
	settingsMinJobs = 1
	settingsMaxJobs = 64
)

const (
	settingJobs = iota
	settingRecursive
	settingDone
	settingCount
)

// SettingsModel edits the options used for the next batch.
type SettingsModel struct {
	jobs      int
	recursive bool
	reportDir string
	selected  int
	width     int
	height    int
}

// SettingsSaveMsg is sent when settings are saved.
type SettingsSaveMsg struct {
	Jobs      int
	Recursive bool
}

// NewSettingsModel creates a new settings model. reportDir is shown for
// reference and is set through the environment.
func NewSettingsModel(jobs int, recursive bool, reportDir string, width, height int) SettingsModel {
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	return SettingsModel{
		jobs:      clampJobs(jobs),
		recursive: recursive,
		reportDir: reportDir,
		width:     width,
		height:    height,
	}
}

func clampJobs(n int) int {
	switch {
	case n < settingsMinJobs:
		return settingsMinJobs
	case n > settingsMaxJobs:
		return settingsMaxJobs
	}
	return n
}

// Init initializes the model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		styles.AdaptToTerminal(m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.selected = (m.selected + settingCount - 1) % settingCount
		case "down", "j":
			m.selected = (m.selected + 1) % settingCount
		case "left", "h", "-", "_":
			if m.selected == settingJobs {
				m.jobs = clampJobs(m.jobs - 1)
			}
		case "right", "l", "+", "=":
			if m.selected == settingJobs {
				m.jobs = clampJobs(m.jobs + 1)
			}
		case " ", "enter":
			switch m.selected {
			case settingRecursive:
				m.recursive = !m.recursive
			case settingDone:
				if msg.String() == "enter" {
					jobs, recursive := m.jobs, m.recursive
					return m, func() tea.Msg {
						return SettingsSaveMsg{Jobs: jobs, Recursive: recursive}
					}
				}
			}
		case "esc", "q":
			return m, func() tea.Msg { return BackToMenuMsg{} }
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the settings.
func (m SettingsModel) View() string {
	width := styles.PanelWidth(m.width)

	items := []string{
		fmt.Sprintf("Reader workers: %d", m.jobs),
		fmt.Sprintf("Include subdirectories: %v", m.recursive),
		"Done",
	}
	lines := make([]string, 0, len(items))
	for i, item := range items {
		if i == m.selected {
			lines = append(lines, styles.SelectedListItemStyle.Render(styles.IconArrow+" "+item))
		} else {
			lines = append(lines, styles.ListItemStyle.Render("  "+item))
		}
	}

	notes := []string{
		styles.MutedStyle.Render("Workers read files in parallel; records are always validated in order."),
	}
	if m.reportDir != "" {
		notes = append(notes, styles.MutedStyle.Render("Reports are saved to: "+m.reportDir))
	}

	box := styles.BorderStyle.
		Width(width).
		Render(strings.Join(lines, "\n\n") + "\n\n" + strings.Join(notes, "\n"))

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderTitle("⚙ Settings"),
		styles.RenderSubtitle("Options for the next validation run"),
		"",
		box,
		styles.HelpBar(width,
			"↑/↓", "navigate",
			"←/→", "adjust workers",
			"space", "toggle",
			"enter", "save",
			"esc", "back"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
