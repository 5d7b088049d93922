package models

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/petergi/cup-validator-cli/internal/tui/styles"
)

// Menu actions.
const (
	ActionValidate = "validate"
	ActionBatch    = "batch"
	ActionResults  = "results"
	ActionSettings = "settings"
	ActionQuit     = "quit"
)

// MenuOption represents a selectable option in the menu
type MenuOption struct {
	Label       string
	Description string
	Action      string
}

// MenuModel represents the main menu state
type MenuModel struct {
	options  []MenuOption
	selected int
	width    int
	height   int
	quitting bool
}

// NewMenuModel creates the main menu. hasResults adds an entry for
// reopening the last report.
func NewMenuModel(hasResults bool, width, height int) MenuModel {
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	options := []MenuOption{
		{
			Label:       "Validate XML Files",
			Description: "Pick one or more CUP XML records to check",
			Action:      ActionValidate,
		},
		{
			Label:       "Validate Directory",
			Description: "Check every .xml record in a folder",
			Action:      ActionBatch,
		},
	}
	if hasResults {
		options = append(options, MenuOption{
			Label:       "View Last Results",
			Description: "Reopen the most recent report",
			Action:      ActionResults,
		})
	}
	options = append(options,
		MenuOption{
			Label:       "Settings",
			Description: "Batch jobs and directory scanning",
			Action:      ActionSettings,
		},
		MenuOption{
			Label:       "Quit",
			Description: "Exit the application",
			Action:      ActionQuit,
		},
	)

	return MenuModel{
		options: options,
		width:   width,
		height:  height,
	}
}

// Init initializes the model
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles navigation. Selection wraps at both ends.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		styles.AdaptToTerminal(m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.selected--
			if m.selected < 0 {
				m.selected = len(m.options) - 1
			}

		case "down", "j":
			m.selected++
			if m.selected >= len(m.options) {
				m.selected = 0
			}

		case "enter":
			action := m.SelectedAction()
			if action == ActionQuit {
				m.quitting = true
				return m, tea.Quit
			}
			return m, func() tea.Msg {
				return MenuSelectMsg{Action: action}
			}

		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu
func (m MenuModel) View() string {
	if m.quitting {
		return styles.RenderInfo("Goodbye!") + "\n"
	}

	title := styles.RenderTitle("🖨  CUP XML Validator")
	subtitle := styles.RenderSubtitle("Check print specifications against production rules")

	var options string
	for i, opt := range m.options {
		if i == m.selected {
			options += styles.SelectedListItemStyle.Render(styles.IconArrow+" "+opt.Label) + "\n"
		} else {
			options += styles.ListItemStyle.Render("  "+opt.Label) + "\n"
		}
		options += styles.MutedStyle.Render("  "+opt.Description) + "\n"
		if i < len(m.options)-1 {
			options += "\n"
		}
	}

	menuBox := styles.BorderStyle.Width(56).Render(options)
	help := styles.HelpBar(56, "↑/↓", "navigate", "enter", "select", "q", "quit")

	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, menuBox, "", help)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// SelectedAction returns the action of the currently selected option
func (m MenuModel) SelectedAction() string {
	if m.selected >= 0 && m.selected < len(m.options) {
		return m.options[m.selected].Action
	}
	return ""
}

// Quitting returns true if the user wants to quit
func (m MenuModel) Quitting() bool {
	return m.quitting
}

// MenuSelectMsg is sent when a menu option is selected
type MenuSelectMsg struct {
	Action string
}
