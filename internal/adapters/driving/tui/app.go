package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/views/form"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/views/progress"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/views/results"
	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	statusBar    *status.Bar
	menuView     *menu.View
	formView     *form.View
	progressView *progress.View
	resultsView  *results.View
	historyView  *history.View

	// settings are the loaded application settings; defaults until loaded.
	settings domain.AppSettings

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingCalculatorService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		statusBar:    status.NewBar(s, km),
		menuView:     menu.NewView(s),
		formView:     form.NewView(s, ports.Calculator),
		progressView: progress.NewView(s),
		resultsView:  results.NewView(s),
		historyView:  history.NewView(s, ports.History),
		settings:     domain.DefaultAppSettings(),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.historyView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("changegear"),
		a.loadSettings(),
	)
}

func (a *App) loadSettings() tea.Cmd {
	if a.ports.Settings == nil {
		return nil
	}
	return a.ReloadSettings
}

// ReloadSettings reads the settings and returns them as a message for the
// running program.
func (a *App) ReloadSettings() tea.Msg {
	if a.ports.Settings == nil {
		return nil
	}
	cfg, err := a.ports.Settings.Get()
	return messages.SettingsLoaded{Settings: cfg, Err: err}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SettingsLoaded:
		if msg.Err != nil {
			logger.Warn("failed to load settings, using defaults: %v", msg.Err)
			return a, nil
		}
		if msg.Settings != nil {
			a.settings = *msg.Settings
			a.historyView.SetLimit(a.settings.Display.ResultLimit)
			if a.currentView != messages.ViewForm {
				a.formView.Load(a.settings.Calculator.Params)
			}
		}
		return a, nil

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.CalculationRequested:
		return a, a.startCalculation(msg.Params)

	case messages.CalculationCompleted:
		return a, a.completeCalculation(msg)

	case messages.CalculationSaved:
		a.resultsView.SetSaved(msg.ID, msg.Err)
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.statusBar.SetMessage("saved")
		return a, nil

	case messages.CalculationSelected:
		calc := msg.Calculation
		a.resultsView.SetCalculation(&calc, true)
		a.showResults(&calc)
		return a, nil

	case messages.HistoryLoaded, messages.CalculationDeleted:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Step results belong to the progress view even if it is not on screen.
	if a.progressView.Running() {
		a.progressView, cmd = a.progressView.Update(msg)
		return a, cmd
	}
	return a, a.updateCurrent(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewForm, messages.ViewProgress:
		// Every printable key is input here.
		return a, a.updateCurrent(msg)
	case messages.ViewHelp:
		if keymap.Matches(key, a.keymap.Back) || keymap.Matches(key, a.keymap.Help) {
			return a, a.switchTo(messages.ViewMenu)
		}
		if keymap.Matches(key, a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, nil
	case messages.ViewMenu, messages.ViewResults, messages.ViewHistory:
	}

	switch {
	case keymap.Matches(key, a.keymap.Help):
		return a, a.switchTo(messages.ViewHelp)
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit
	case a.currentView == messages.ViewResults && keymap.Matches(key, a.keymap.History):
		return a, a.switchTo(messages.ViewHistory)
	}
	return a, a.updateCurrent(msg)
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewForm:
		a.formView, cmd = a.formView.Update(msg)
	case messages.ViewProgress:
		a.progressView, cmd = a.progressView.Update(msg)
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// switchTo activates view and returns its start-up command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if a.progressView.Running() {
		// The running search owns the screen until it finishes.
		return nil
	}

	a.currentView = view
	a.statusBar.Clear()
	switch view {
	case messages.ViewForm:
		a.statusBar.SetState(status.StateEditing)
		return a.formView.Init()
	case messages.ViewHistory:
		a.statusBar.SetState(status.StateHistory)
		return a.historyView.Init()
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case messages.ViewResults:
		if calc := a.resultsView.Calculation(); calc != nil {
			a.statusBar.SetState(status.StateResults)
			a.statusBar.SetTrainCount(len(calc.Trains))
		}
	case messages.ViewMenu, messages.ViewProgress:
	}
	return nil
}

func (a *App) startCalculation(params domain.CalculationParams) tea.Cmd {
	run, err := a.ports.Calculator.NewRun(params)
	if err != nil {
		a.setError(err)
		return nil
	}

	logger.Debug("starting %d-shaft search for target %g", params.ShaftCount, params.TargetMultiplier)
	a.err = nil
	a.currentView = messages.ViewProgress
	a.statusBar.Clear()
	a.statusBar.SetState(status.StateCalculating)
	return a.progressView.Start(run, a.settings.Search.StepBudget)
}

func (a *App) completeCalculation(msg messages.CalculationCompleted) tea.Cmd {
	if msg.Err != nil {
		a.currentView = messages.ViewForm
		a.setError(msg.Err)
		return nil
	}

	calc := msg.Calculation
	a.resultsView.SetCalculation(calc, msg.Complete)
	a.showResults(calc)
	if !msg.Complete {
		a.statusBar.SetMessage("partial")
		return nil
	}
	return a.save(calc)
}

func (a *App) showResults(calc *domain.Calculation) {
	a.currentView = messages.ViewResults
	a.statusBar.Clear()
	a.statusBar.SetState(status.StateResults)
	a.statusBar.SetTrainCount(len(calc.Trains))
}

// save writes a complete calculation to history when it is enabled.
func (a *App) save(calc *domain.Calculation) tea.Cmd {
	if !a.settings.History.Enabled || a.ports.History == nil {
		return nil
	}
	ctx, hist := a.ctx, a.ports.History
	return func() tea.Msg {
		return messages.CalculationSaved{ID: calc.ID, Err: hist.Save(ctx, calc)}
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewForm:
		body = a.formView.View()
	case messages.ViewProgress:
		body = a.progressView.View()
	case messages.ViewResults:
		body = a.resultsView.View()
	case messages.ViewHistory:
		body = a.historyView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewMenu:
		body = a.menuView.View()
	default:
		body = a.menuView.View()
	}

	// Pin the status bar to the bottom row.
	gap := a.height - strings.Count(body, "\n") - 2
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.statusBar.View()
}

// viewHelp renders every keybinding group.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(a.styles.Label.Render(h.Key))
			b.WriteString(a.styles.Normal.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("Searches can be long: esc stops one and keeps the trains found so far.\n"))
	b.WriteString(a.styles.Muted.Render("Stopped searches are not saved to history."))
	return b.String()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Settings returns the settings in use.
func (a *App) Settings() domain.AppSettings {
	return a.settings
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := height - 1
	a.statusBar.SetWidth(width)
	a.menuView.SetDimensions(width, body)
	a.formView.SetDimensions(width, body)
	a.progressView.SetDimensions(width, body)
	a.resultsView.SetDimensions(width, body)
	a.historyView.SetDimensions(width, body)
}
