// Package tui is the interactive front end: pick records or a directory,
// watch the batch run, then browse, save or copy the results.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/petergi/cup-validator-cli/internal/config"
	"github.com/petergi/cup-validator-cli/internal/logging"
	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/rules"
	"github.com/petergi/cup-validator-cli/internal/tui/models"
	"github.com/petergi/cup-validator-cli/internal/validator"
)

// AppState represents the current state of the application
type AppState int

const (
	StateMenu AppState = iota
	StateBrowser
	StateProgress
	StateReport
	StateSettings
)

// Options configures an App.
type Options struct {
	Config    config.Config
	Validator *validator.Validator
	Logger    *slog.Logger
	StartDir  string
}

// App is the main TUI application coordinator
type App struct {
	state         AppState
	menuModel     models.MenuModel
	browserModel  models.BrowserModel
	progressModel models.ProgressModel
	reportModel   models.ReportModel
	settingsModel models.SettingsModel

	ctx       context.Context
	validator *validator.Validator
	logger    *slog.Logger
	processor *operations.BatchProcessor
	startDir  string
	reportDir string

	jobs       int
	recursive  bool
	lastResult *operations.BatchResult

	width  int
	height int
}

// NewApp creates a new TUI application. Batches run under ctx.
func NewApp(ctx context.Context, opts Options) App {
	v := opts.Validator
	if v == nil {
		v = validator.New(rules.Default())
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	startDir := opts.StartDir
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	jobs := opts.Config.Jobs
	if jobs < 1 {
		jobs = 1
	}

	return App{
		state:     StateMenu,
		menuModel: models.NewMenuModel(false, 0, 0),
		ctx:       ctx,
		validator: v,
		logger:    logger,
		startDir:  startDir,
		reportDir: opts.Config.ReportDirOrCwd(),
		jobs:      jobs,
		recursive: true,
	}
}

// Init initializes the application
func (a App) Init() tea.Cmd {
	return a.menuModel.Init()
}

// Update handles messages and updates the application state
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = size.Width
		a.height = size.Height
	}

	switch a.state {
	case StateMenu:
		return a.updateMenu(msg)
	case StateBrowser:
		return a.updateBrowser(msg)
	case StateProgress:
		return a.updateProgress(msg)
	case StateReport:
		return a.updateReport(msg)
	case StateSettings:
		return a.updateSettings(msg)
	}

	return a, nil
}

// View renders the current view based on state
func (a App) View() string {
	switch a.state {
	case StateMenu:
		return a.menuModel.View()
	case StateBrowser:
		return a.browserModel.View()
	case StateProgress:
		return a.progressModel.View()
	case StateReport:
		return a.reportModel.View()
	case StateSettings:
		return a.settingsModel.View()
	}

	return "Unknown state"
}

func (a App) toMenu() (tea.Model, tea.Cmd) {
	a.menuModel = models.NewMenuModel(a.lastResult != nil, a.width, a.height)
	a.state = StateMenu
	return a, nil
}

func (a App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case models.MenuSelectMsg:
		switch msg.Action {
		case models.ActionValidate:
			a.browserModel = models.NewBrowserModel(a.startDir, a.width, a.height)
			a.state = StateBrowser
			return a, a.browserModel.Init()

		case models.ActionBatch:
			a.browserModel = models.NewDirectoryBrowserModel(a.startDir, a.width, a.height)
			a.state = StateBrowser
			return a, a.browserModel.Init()

		case models.ActionResults:
			if a.lastResult == nil {
				return a, nil
			}
			return a.openReport(a.lastResult)

		case models.ActionSettings:
			a.settingsModel = models.NewSettingsModel(a.jobs, a.recursive, a.reportDir, a.width, a.height)
			a.state = StateSettings
			return a, a.settingsModel.Init()

		case models.ActionQuit:
			return a, tea.Quit
		}
		return a, nil
	}

	m, cmd := a.menuModel.Update(msg)
	a.menuModel = m.(models.MenuModel)
	return a, cmd
}

func (a App) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case models.FileSelectMsg:
		if len(msg.Paths) > 0 {
			a.startDir = filepath.Dir(msg.Paths[0])
		}
		return a.startRun(describe(msg.Paths), msg.Paths, nil)

	case models.DirectorySelectMsg:
		a.startDir = msg.Path
		files, err := operations.FindFiles(msg.Path, operations.FindFilesOptions{
			Recursive: a.recursive,
			MaxDepth:  -1,
		})
		return a.startRun(msg.Path, files, err)

	case models.BackToMenuMsg:
		return a.toMenu()
	}

	m, cmd := a.browserModel.Update(msg)
	a.browserModel = m.(models.BrowserModel)
	return a, cmd
}

func describe(paths []string) string {
	if len(paths) == 1 {
		return filepath.Base(paths[0])
	}
	return fmt.Sprintf("%d selected records", len(paths))
}

// startRun switches to the progress view and validates files in the
// background. Progress updates are read one at a time by listen.
func (a App) startRun(source string, files []string, findErr error) (tea.Model, tea.Cmd) {
	a.progressModel = models.NewProgressModel(source, len(files), a.width, a.height)
	a.state = StateProgress
	a.processor = nil

	if findErr != nil {
		err := fmt.Errorf("failed to find files: %w", findErr)
		return a, tea.Batch(a.progressModel.Init(), done(nil, err))
	}
	if len(files) == 0 {
		return a, tea.Batch(a.progressModel.Init(), done(nil, nil))
	}

	cfg := operations.DefaultBatchConfig()
	cfg.NumWorkers = a.jobs
	cfg.Logger = a.logger
	processor := operations.NewBatchProcessor(a.ctx, cfg)
	a.processor = processor

	v := a.validator
	run := func() tea.Msg {
		result, err := processor.Run(files, v)
		if err != nil {
			return models.OperationDoneMsg{Err: fmt.Errorf("batch interrupted: %w", err)}
		}
		return models.OperationDoneMsg{Result: &result}
	}

	return a, tea.Batch(a.progressModel.Init(), run, a.listen())
}

func done(result *operations.BatchResult, err error) tea.Cmd {
	return func() tea.Msg {
		return models.OperationDoneMsg{Result: result, Err: err}
	}
}

// listen waits for the next progress update. It yields nil once the
// channel is closed, which ends the chain.
func (a App) listen() tea.Cmd {
	if a.processor == nil {
		return nil
	}
	ch := a.processor.ProgressChannel()
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return models.ConvertBatchProgress(update)
	}
}

func (a App) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case models.ProgressUpdateMsg:
		m, cmd := a.progressModel.Update(msg)
		a.progressModel = m.(models.ProgressModel)
		return a, tea.Batch(cmd, a.listen())

	case models.OperationDoneMsg:
		a.processor = nil
		if msg.Result != nil {
			a.lastResult = msg.Result
		}

	case models.OperationCancelMsg:
		if a.processor != nil {
			a.processor.Cancel()
		}
		return a, nil

	case models.ViewReportMsg:
		return a.openReport(msg.Result)

	case models.BackToMenuMsg:
		return a.toMenu()
	}

	m, cmd := a.progressModel.Update(msg)
	a.progressModel = m.(models.ProgressModel)
	return a, cmd
}

func (a App) openReport(result *operations.BatchResult) (tea.Model, tea.Cmd) {
	a.reportModel = models.NewReportModel(result, a.reportDir, a.width, a.height)
	a.state = StateReport
	return a, a.reportModel.Init()
}

func (a App) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case models.BackToMenuMsg:
		return a.toMenu()

	case models.ClearResultsMsg:
		a.lastResult = nil
		return a.toMenu()
	}

	m, cmd := a.reportModel.Update(msg)
	a.reportModel = m.(models.ReportModel)
	return a, cmd
}

func (a App) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case models.SettingsSaveMsg:
		a.jobs = msg.Jobs
		a.recursive = msg.Recursive
		return a.toMenu()

	case models.BackToMenuMsg:
		return a.toMenu()
	}

	m, cmd := a.settingsModel.Update(msg)
	a.settingsModel = m.(models.SettingsModel)
	return a, cmd
}

// Run loads configuration and the rule catalog, then starts the TUI.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	catalog := rules.Default()
	if cfg.RulesFile != "" {
		if catalog, err = rules.LoadFile(cfg.RulesFile); err != nil {
			return err
		}
	}

	app := NewApp(ctx, Options{
		Config:    cfg,
		Validator: validator.New(catalog),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
