package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/changegear/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
	"github.com/custodia-labs/changegear/internal/core/services"
)

func newTestPorts() *Ports {
	return NewPorts(&MockCalculatorService{}, &MockHistoryService{}, &MockSettingsService{})
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

func smallParams() domain.CalculationParams {
	return domain.CalculationParams{
		ShaftCount:       2,
		ChangeGears:      []int{20, 30, 40},
		SharedInputGears: true,
		TargetMultiplier: 1,
		Module:           1,
	}
}

// pump runs cmd and feeds each resulting message back into the app until
// no command is left.
func pump(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 1000, "command chain did not settle")
		_, cmd = app.Update(cmd())
	}
}

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func assertQuit(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Equal(t, domain.DefaultAppSettings(), app.Settings())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{History: &MockHistoryService{}})

	assert.ErrorIs(t, err, ErrMissingCalculatorService)
	assert.Nil(t, app)
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_LoadSettings(t *testing.T) {
	cfg := domain.DefaultAppSettings()
	cfg.Calculator.Params = smallParams()
	cfg.Display.ResultLimit = 5
	ports := newTestPorts()
	ports.Settings = &MockSettingsService{GetFunc: func() (*domain.AppSettings, error) { return &cfg, nil }}
	app := newTestApp(t, ports)

	pump(t, app, app.loadSettings())

	assert.Equal(t, 2, app.Settings().Calculator.Params.ShaftCount)
	assert.Equal(t, 5, app.Settings().Display.ResultLimit)
}

func TestApp_LoadSettingsError(t *testing.T) {
	ports := newTestPorts()
	ports.Settings = &MockSettingsService{GetFunc: func() (*domain.AppSettings, error) {
		return nil, errors.New("bad toml")
	}}
	app := newTestApp(t, ports)

	pump(t, app, app.loadSettings())

	assert.Equal(t, domain.DefaultAppSettings(), app.Settings())
}

func TestApp_LoadSettingsWithoutService(t *testing.T) {
	app := newTestApp(t, &Ports{Calculator: &MockCalculatorService{}})

	assert.Nil(t, app.loadSettings())
	assert.Nil(t, app.ReloadSettings())
}

func TestApp_ReloadKeepsFormEdits(t *testing.T) {
	cfg := domain.DefaultAppSettings()
	cfg.Calculator.Params.ShaftCount = 5
	ports := newTestPorts()
	ports.Settings = &MockSettingsService{GetFunc: func() (*domain.AppSettings, error) { return &cfg, nil }}
	app := newTestApp(t, ports)
	app.Update(messages.ViewChanged{View: messages.ViewForm})
	app.formView.Field(0).SetValue("4")

	app.Update(app.ReloadSettings())

	assert.Equal(t, 5, app.Settings().Calculator.Params.ShaftCount)
	assert.Equal(t, "4", app.formView.Field(0).Value())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	assert.Equal(t, "Initialising...", app.View())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 80, app.statusBar.Width())
}

func TestApp_View_Menu(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	out := app.View()

	assert.Contains(t, out, "changegear")
	assert.Contains(t, out, "New calculation")
	assert.Contains(t, out, "Ready")
}

func TestApp_ViewChanged(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.ViewChanged{View: messages.ViewForm})

	assert.Equal(t, messages.ViewForm, app.CurrentView())
	assert.Equal(t, status.StateEditing, app.statusBar.State())
	assert.Contains(t, app.View(), "Change gears")
}

func TestApp_CalculationFlowSavesToHistory(t *testing.T) {
	hist := &MockHistoryService{}
	ports := newTestPorts()
	ports.History = hist
	ports.Calculator = &MockCalculatorService{NewRunFunc: func(p domain.CalculationParams) (driving.CalculationRun, error) {
		return &MockRun{params: p, steps: 3, trains: []domain.GearTrain{
			domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(30, 0), domain.SingleGearShaft(40, 0)}),
		}}, nil
	}}
	app := newTestApp(t, ports)

	_, cmd := app.Update(messages.CalculationRequested{Params: smallParams()})
	assert.Equal(t, messages.ViewProgress, app.CurrentView())
	assert.Equal(t, status.StateCalculating, app.statusBar.State())

	pump(t, app, cmd)

	assert.Equal(t, messages.ViewResults, app.CurrentView())
	require.Len(t, hist.saved, 1)
	assert.Equal(t, "calc-1", hist.saved[0].ID)
	assert.Equal(t, 1, app.statusBar.TrainCount())
	assert.Equal(t, "saved", app.statusBar.Message())
	out := app.View()
	assert.Contains(t, out, "30 > 40")
	assert.Contains(t, out, "saved as calc-1")
}

func TestApp_CalculationUsesStepBudget(t *testing.T) {
	run := &MockRun{steps: 1}
	ports := newTestPorts()
	ports.Calculator = &MockCalculatorService{NewRunFunc: func(domain.CalculationParams) (driving.CalculationRun, error) {
		return run, nil
	}}
	app := newTestApp(t, ports)

	_, cmd := app.Update(messages.CalculationRequested{Params: smallParams()})
	pump(t, app, cmd)

	assert.Equal(t, domain.DefaultAppSettings().Search.StepBudget, run.budget)
}

func TestApp_CalculationWithRealServices(t *testing.T) {
	settings := services.NewSettingsService(memory.NewConfigStore())
	hist := &MockHistoryService{}
	ports := NewPorts(services.NewCalculatorService(settings, nil, nil), hist, settings)
	app := newTestApp(t, ports)
	pump(t, app, app.loadSettings())

	_, cmd := app.Update(messages.CalculationRequested{Params: smallParams()})
	pump(t, app, cmd)

	require.Equal(t, messages.ViewResults, app.CurrentView())
	calc := app.resultsView.Calculation()
	require.NotNil(t, calc)
	assert.Equal(t, uint64(6), calc.Progress.Found)
	assert.Equal(t, "30 > 40", calc.Trains[0].String())
	assert.Len(t, hist.saved, 1)
}

func TestApp_HistoryDisabledSkipsSave(t *testing.T) {
	hist := &MockHistoryService{}
	ports := newTestPorts()
	ports.History = hist
	app := newTestApp(t, ports)
	cfg := domain.DefaultAppSettings()
	cfg.History.Enabled = false
	app.Update(messages.SettingsLoaded{Settings: &cfg})

	_, cmd := app.Update(messages.CalculationRequested{Params: smallParams()})
	pump(t, app, cmd)

	assert.Equal(t, messages.ViewResults, app.CurrentView())
	assert.Empty(t, hist.saved)
}

func TestApp_SaveFailure(t *testing.T) {
	ports := newTestPorts()
	ports.History = &MockHistoryService{SaveFunc: func(context.Context, *domain.Calculation) error {
		return errors.New("disk full")
	}}
	app := newTestApp(t, ports)

	_, cmd := app.Update(messages.CalculationRequested{Params: smallParams()})
	pump(t, app, cmd)

	assert.EqualError(t, app.Err(), "disk full")
	assert.Equal(t, status.StateError, app.statusBar.State())
	assert.Contains(t, app.View(), "Save failed: disk full")
}

func TestApp_StopKeepsPartialResults(t *testing.T) {
	hist := &MockHistoryService{}
	ports := newTestPorts()
	ports.History = hist
	ports.Calculator = &MockCalculatorService{NewRunFunc: func(p domain.CalculationParams) (driving.CalculationRun, error) {
		return &MockRun{params: p, steps: 100}, nil
	}}
	app := newTestApp(t, ports)

	_, step := app.Update(messages.CalculationRequested{Params: smallParams()})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewProgress, app.CurrentView())

	pump(t, app, step)

	assert.Equal(t, messages.ViewResults, app.CurrentView())
	assert.False(t, app.resultsView.Complete())
	assert.Empty(t, hist.saved)
	assert.Equal(t, "partial", app.statusBar.Message())
	assert.Contains(t, app.View(), "Stopped early")
}

func TestApp_RunningSearchOwnsScreen(t *testing.T) {
	ports := newTestPorts()
	ports.Calculator = &MockCalculatorService{NewRunFunc: func(p domain.CalculationParams) (driving.CalculationRun, error) {
		return &MockRun{params: p, steps: 100}, nil
	}}
	app := newTestApp(t, ports)
	app.Update(messages.CalculationRequested{Params: smallParams()})

	app.Update(messages.ViewChanged{View: messages.ViewMenu})

	assert.Equal(t, messages.ViewProgress, app.CurrentView())
}

func TestApp_NewRunError(t *testing.T) {
	ports := newTestPorts()
	ports.Calculator = &MockCalculatorService{NewRunFunc: func(domain.CalculationParams) (driving.CalculationRun, error) {
		return nil, domain.ErrInvalidParams
	}}
	app := newTestApp(t, ports)
	app.Update(messages.ViewChanged{View: messages.ViewForm})

	_, cmd := app.Update(messages.CalculationRequested{Params: smallParams()})

	assert.Nil(t, cmd)
	assert.ErrorIs(t, app.Err(), domain.ErrInvalidParams)
	assert.Equal(t, messages.ViewForm, app.CurrentView())
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_CalculationCompletedError(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.CalculationCompleted{Err: domain.ErrRunFinished})

	assert.Equal(t, messages.ViewForm, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrRunFinished)
}

func TestApp_FormSubmitStartsCalculation(t *testing.T) {
	var requested domain.CalculationParams
	ports := newTestPorts()
	ports.Calculator = &MockCalculatorService{NewRunFunc: func(p domain.CalculationParams) (driving.CalculationRun, error) {
		requested = p
		return &MockRun{params: p, steps: 1}, nil
	}}
	app := newTestApp(t, ports)
	app.Update(messages.ViewChanged{View: messages.ViewForm})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pump(t, app, cmd)

	assert.Equal(t, messages.ViewResults, app.CurrentView())
	assert.Equal(t, 3, requested.ShaftCount)
}

func TestApp_FormKeysAreInput(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewForm})
	app.formView.Field(0).SetValue("")

	app.Update(runes('q'))
	app.Update(runes('?'))

	assert.Equal(t, messages.ViewForm, app.CurrentView())
	assert.Equal(t, "q?", app.formView.Field(0).Value())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(runes('q'))
	assertQuit(t, cmd)

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assertQuit(t, cmd)

	_, cmd = app.Update(messages.Quit{})
	assertQuit(t, cmd)
}

func TestApp_CtrlCQuitsFromForm(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewForm})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assertQuit(t, cmd)
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(runes('?'))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	out := app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "new calculation")
	assert.Contains(t, out, "esc stops one")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_HelpQuit(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	_, cmd := app.Update(runes('q'))

	assertQuit(t, cmd)
}

func TestApp_HistoryFlow(t *testing.T) {
	saved := domain.Calculation{
		ID:     "calc-7",
		Params: smallParams(),
		Trains: []domain.GearTrain{
			domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(20, 0), domain.SingleGearShaft(40, 0)}),
		},
	}
	hist := &MockHistoryService{saved: []domain.Calculation{saved}}
	ports := newTestPorts()
	ports.History = hist
	app := newTestApp(t, ports)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewHistory})
	pump(t, app, cmd)
	assert.Equal(t, messages.ViewHistory, app.CurrentView())
	assert.Len(t, app.historyView.Calculations(), 1)

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pump(t, app, cmd)

	assert.Equal(t, messages.ViewResults, app.CurrentView())
	assert.Equal(t, "calc-7", app.resultsView.Calculation().ID)
	assert.Contains(t, app.View(), "20 > 40")
}

func TestApp_ResultsShortcuts(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	calc := domain.Calculation{ID: "calc-1", Params: smallParams()}
	app.Update(messages.CalculationSelected{Calculation: calc})

	_, cmd := app.Update(runes('h'))
	pump(t, app, cmd)
	assert.Equal(t, messages.ViewHistory, app.CurrentView())

	app.Update(messages.CalculationSelected{Calculation: calc})
	_, cmd = app.Update(runes('n'))
	require.NotNil(t, cmd)
	app.Update(cmd()) // the form's cursor blink is not pumped
	assert.Equal(t, messages.ViewForm, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "Error: boom")
}
