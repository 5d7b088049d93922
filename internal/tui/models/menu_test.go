package models

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewMenuModel(t *testing.T) {
	m := NewMenuModel(false, 0, 0)

	if len(m.options) != 4 {
		t.Errorf("Expected 4 options, got %d", len(m.options))
	}
	if m.width != 80 || m.height != 24 {
		t.Errorf("Expected default size 80x24, got %dx%d", m.width, m.height)
	}
	if m.options[0].Action != ActionValidate {
		t.Errorf("Expected first option to be %q, got %q", ActionValidate, m.options[0].Action)
	}
	if m.options[len(m.options)-1].Action != ActionQuit {
		t.Errorf("Expected last option to be quit, got %q", m.options[len(m.options)-1].Action)
	}
}

func TestNewMenuModel_WithResults(t *testing.T) {
	m := NewMenuModel(true, 80, 24)

	if len(m.options) != 5 {
		t.Fatalf("Expected 5 options, got %d", len(m.options))
	}
	if m.options[2].Action != ActionResults {
		t.Errorf("Expected results option third, got %q", m.options[2].Action)
	}
}

func TestMenuModel_Update_Navigate(t *testing.T) {
	tests := []struct {
		name  string
		start int
		key   tea.KeyMsg
		want  int
	}{
		{"down arrow", 0, tea.KeyMsg{Type: tea.KeyDown}, 1},
		{"j key", 0, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 1},
		{"up arrow", 1, tea.KeyMsg{Type: tea.KeyUp}, 0},
		{"k key", 1, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, 0},
		{"wrap down", 3, tea.KeyMsg{Type: tea.KeyDown}, 0},
		{"wrap up", 0, tea.KeyMsg{Type: tea.KeyUp}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMenuModel(false, 80, 24)
			m.selected = tt.start

			updated, _ := m.Update(tt.key)
			m = updated.(MenuModel)

			if m.selected != tt.want {
				t.Errorf("Expected selected %d, got %d", tt.want, m.selected)
			}
		})
	}
}

func TestMenuModel_Update_Enter(t *testing.T) {
	m := NewMenuModel(false, 80, 24)
	m.selected = 1

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected command on enter")
	}

	msg, ok := cmd().(MenuSelectMsg)
	if !ok {
		t.Fatalf("Expected MenuSelectMsg, got %T", cmd())
	}
	if msg.Action != ActionBatch {
		t.Errorf("Expected %q, got %q", ActionBatch, msg.Action)
	}
}

func TestMenuModel_Update_EnterQuit(t *testing.T) {
	m := NewMenuModel(false, 80, 24)
	m.selected = len(m.options) - 1

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(MenuModel)

	if !m.Quitting() {
		t.Error("Expected quitting to be true")
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
}

func TestMenuModel_Update_QuitKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}

	for _, key := range keys {
		m := NewMenuModel(false, 80, 24)
		updated, cmd := m.Update(key)
		m = updated.(MenuModel)

		if !m.Quitting() || cmd == nil {
			t.Errorf("Expected %s to quit", key.String())
		}
	}
}

func TestMenuModel_Update_WindowSize(t *testing.T) {
	m := NewMenuModel(false, 80, 24)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(MenuModel)

	if m.width != 120 || m.height != 40 {
		t.Errorf("Expected 120x40, got %dx%d", m.width, m.height)
	}
}

func TestMenuModel_View(t *testing.T) {
	m := NewMenuModel(true, 100, 40)
	view := m.View()

	for _, want := range []string{"CUP XML Validator", "Validate Directory", "View Last Results", "navigate"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}

	m.quitting = true
	if !strings.Contains(m.View(), "Goodbye") {
		t.Error("Expected goodbye message when quitting")
	}
}

func TestMenuModel_SelectedAction_OutOfBounds(t *testing.T) {
	m := NewMenuModel(false, 80, 24)
	m.selected = 99

	if m.SelectedAction() != "" {
		t.Error("Expected empty action for invalid selection")
	}
}
