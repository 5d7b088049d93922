package models

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/petergi/cup-validator-cli/internal/tui/styles"
)

// FileItem represents a file or directory in the browser
type FileItem struct {
	Name  string
	Path  string
	IsDir bool
}

// BrowserMode configures how selection behaves.
type BrowserMode int

const (
	// BrowserModeFile picks one record, or several with space and s.
	BrowserModeFile BrowserMode = iota
	// BrowserModeDirectory picks a directory to validate as a batch.
	BrowserModeDirectory
)

// browserChrome is the number of lines taken by everything except the list.
const browserChrome = 15

// BrowserModel represents the file browser state
type BrowserModel struct {
	currentDir   string
	items        []FileItem
	selected     int
	marked       map[string]bool
	width        int
	height       int
	errorMsg     string
	showHidden   bool
	extensions   []string
	mode         BrowserMode
	viewportTop  int
	viewportSize int
}

// NewBrowserModel creates a record browser starting at startDir.
func NewBrowserModel(startDir string, width, height int) BrowserModel {
	return newBrowserModel(startDir, BrowserModeFile, width, height)
}

// NewDirectoryBrowserModel creates a browser that selects directories.
func NewDirectoryBrowserModel(startDir string, width, height int) BrowserModel {
	return newBrowserModel(startDir, BrowserModeDirectory, width, height)
}

func newBrowserModel(startDir string, mode BrowserMode, width, height int) BrowserModel {
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	m := BrowserModel{
		currentDir:   startDir,
		marked:       make(map[string]bool),
		width:        width,
		height:       height,
		extensions:   []string{".xml"},
		mode:         mode,
		viewportSize: viewportFor(height),
	}
	m.loadDirectory()
	return m
}

func viewportFor(height int) int {
	if size := height - browserChrome; size > 5 {
		return size
	}
	return 5
}

// Init initializes the model
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewportSize = viewportFor(m.height)
		styles.AdaptToTerminal(m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.selected--
			if m.selected < 0 {
				m.selected = len(m.items) - 1
			}
			m.updateViewport()

		case "down", "j":
			m.selected++
			if m.selected >= len(m.items) {
				m.selected = 0
			}
			m.updateViewport()

		case "enter":
			item, ok := m.current()
			if !ok {
				return m, nil
			}
			switch {
			case item.IsDir && m.mode == BrowserModeDirectory && item.Name != "..":
				return m, func() tea.Msg { return DirectorySelectMsg{Path: item.Path} }
			case item.IsDir:
				m.open(item.Path)
			default:
				return m, func() tea.Msg { return FileSelectMsg{Paths: []string{item.Path}} }
			}

		case "right", "l":
			if item, ok := m.current(); ok && item.IsDir {
				m.open(item.Path)
			}

		case "backspace", "h", "left":
			if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
				m.open(parent)
			}

		case " ":
			if item, ok := m.current(); ok && m.mode == BrowserModeFile && !item.IsDir {
				if m.marked[item.Path] {
					delete(m.marked, item.Path)
				} else {
					m.marked[item.Path] = true
				}
				if m.selected < len(m.items)-1 {
					m.selected++
				}
				m.updateViewport()
			}

		case "a":
			if m.mode == BrowserModeFile {
				for _, item := range m.items {
					if !item.IsDir {
						m.marked[item.Path] = true
					}
				}
			}

		case "A":
			m.marked = make(map[string]bool)

		case "s":
			if paths := m.MarkedPaths(); len(paths) > 0 {
				return m, func() tea.Msg { return FileSelectMsg{Paths: paths} }
			}

		case ".":
			m.showHidden = !m.showHidden
			m.open(m.currentDir)

		case "esc", "q":
			return m, func() tea.Msg { return BackToMenuMsg{} }

		case "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *BrowserModel) open(dir string) {
	m.currentDir = dir
	m.selected = 0
	m.viewportTop = 0
	m.loadDirectory()
}

func (m BrowserModel) current() (FileItem, bool) {
	if m.selected >= 0 && m.selected < len(m.items) {
		return m.items[m.selected], true
	}
	return FileItem{}, false
}

// View renders the file browser
func (m BrowserModel) View() string {
	width := styles.PanelWidth(m.width)

	heading := "📂 Select XML Records"
	if m.mode == BrowserModeDirectory {
		heading = "📂 Select a Directory"
	}
	title := styles.RenderTitle(heading)

	pathBox := lipgloss.NewStyle().
		Foreground(styles.ColorInfo).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(styles.ColorMuted).
		Padding(0, 1).
		Width(width).
		Render(m.currentDir)

	var b strings.Builder
	end := m.viewportTop + m.viewportSize
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.viewportTop; i < end; i++ {
		item := m.items[i]
		line := "📄 " + item.Name
		if item.IsDir {
			line = "📁 " + item.Name + "/"
		}
		if m.mode == BrowserModeFile {
			switch {
			case m.marked[item.Path]:
				line = "[✓] " + line
			case item.IsDir:
				line = "    " + line
			default:
				line = "[ ] " + line
			}
		}

		if i == m.selected {
			b.WriteString(styles.SelectedListItemStyle.Render(styles.IconArrow+" "+line) + "\n")
		} else {
			b.WriteString(styles.ListItemStyle.Render("  "+line) + "\n")
		}
	}
	if len(m.items) == 0 || (len(m.items) == 1 && m.items[0].Name == "..") {
		b.WriteString(styles.MutedStyle.Render("No XML records or folders here"))
	}

	listBox := styles.BorderStyle.
		Width(width).
		Height(m.viewportSize + 2).
		Render(b.String())

	status := fmt.Sprintf("Showing: %s  │  Items: %d", strings.Join(m.extensions, ", "), len(m.items))
	if n := len(m.marked); n > 0 {
		status += fmt.Sprintf("  │  Selected: %d", n)
	}
	statusBar := styles.MutedStyle.Width(width).Render(status)

	parts := []string{title, pathBox}
	if m.errorMsg != "" {
		parts = append(parts, styles.StatusBox(styles.IconCross+" "+m.errorMsg, styles.ColorError, width))
	}
	parts = append(parts, listBox, statusBar, m.help(width))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m BrowserModel) help(width int) string {
	if m.mode == BrowserModeDirectory {
		return styles.HelpBar(width,
			"↑/↓", "navigate",
			"enter", "validate dir",
			"l", "open",
			"h", "parent",
			"esc", "back")
	}
	return styles.HelpBar(width,
		"↑/↓", "navigate",
		"enter", "validate/open",
		"space", "mark",
		"a/A", "mark all/none",
		"s", "validate marked",
		"esc", "back")
}

// loadDirectory lists subdirectories then matching files, each sorted
// case-insensitively.
func (m *BrowserModel) loadDirectory() {
	m.items = nil
	m.errorMsg = ""

	if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
		m.items = append(m.items, FileItem{Name: "..", Path: parent, IsDir: true})
	}

	entries, err := os.ReadDir(m.currentDir)
	if err != nil {
		m.errorMsg = "Error reading directory: " + err.Error()
		return
	}

	var dirs, files []FileItem
	for _, entry := range entries {
		name := entry.Name()
		if !m.showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		item := FileItem{Name: name, Path: filepath.Join(m.currentDir, name), IsDir: entry.IsDir()}
		if item.IsDir {
			dirs = append(dirs, item)
		} else if m.matchesFilter(name) {
			files = append(files, item)
		}
	}

	byName := func(items []FileItem) {
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	m.items = append(m.items, dirs...)
	m.items = append(m.items, files...)
}

func (m BrowserModel) matchesFilter(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// updateViewport keeps the selected item visible.
func (m *BrowserModel) updateViewport() {
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

// SelectedPath returns the path of the item under the cursor.
func (m BrowserModel) SelectedPath() string {
	item, _ := m.current()
	return item.Path
}

// MarkedPaths returns the marked files in sorted order.
func (m BrowserModel) MarkedPaths() []string {
	paths := make([]string, 0, len(m.marked))
	for p := range m.marked {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FileSelectMsg is sent when one or more records are chosen.
type FileSelectMsg struct {
	Paths []string
}

// DirectorySelectMsg is sent when a directory is chosen for a batch.
type DirectorySelectMsg struct {
	Path string
}

// BackToMenuMsg is sent when the user wants to go back to the menu
type BackToMenuMsg struct{}
