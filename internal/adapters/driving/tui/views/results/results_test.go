package results

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

func testCalculation() *domain.Calculation {
	return &domain.Calculation{
		ID: "calc-1",
		Params: domain.CalculationParams{
			ShaftCount:       3,
			ChangeGears:      []int{20, 30, 40},
			SharedInputGears: true,
			TargetMultiplier: 1,
			Module:           1,
		},
		Progress: domain.Progress{Found: 2, Skipped: 5, Discarded: 1, Total: 8},
		Trains: []domain.GearTrain{
			domain.NewGearTrain([]domain.Shaft{
				domain.SingleGearShaft(30, 0),
				domain.DoubleGearShaft(20, 40),
				domain.SingleGearShaft(60, 0),
			}),
			domain.NewGearTrain([]domain.Shaft{
				domain.SingleGearShaft(30, 0),
				domain.SingleGearShaft(40, 0),
				domain.SingleGearShaft(40, 0),
			}),
		},
		Duration: 15 * time.Millisecond,
	}
}

func newTestView(calc *domain.Calculation, complete bool) *View {
	v := NewView(nil)
	v.SetDimensions(120, 50)
	v.SetCalculation(calc, complete)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Calculation())
	assert.Contains(t, v.View(), "No calculation")
}

func TestView_SetCalculation(t *testing.T) {
	calc := testCalculation()
	v := newTestView(calc, true)

	assert.Equal(t, calc, v.Calculation())
	assert.True(t, v.Complete())
	assert.Equal(t, 0, v.Selected())
}

func TestView_ViewComplete(t *testing.T) {
	v := newTestView(testCalculation(), true)

	out := v.View()

	assert.Contains(t, out, "Searched 8 candidates in 15ms: 2 found, 5 skipped, 1 discarded")
	assert.Contains(t, out, "30 > 20/40 > 60")
	assert.NotContains(t, out, "Stopped early")
	assert.Contains(t, out, "Train #1")
	assert.Contains(t, out, "input, single")
	assert.Contains(t, out, "20/40 (idler, double)")
	assert.Contains(t, out, "output, single")
	assert.Contains(t, out, "1:1 = 1.000000")
	assert.Contains(t, out, "shafts=3")
}

func TestView_ViewPartial(t *testing.T) {
	v := newTestView(testCalculation(), false)

	assert.Contains(t, v.View(), "Stopped early after 8 of 8 candidates")
}

func TestView_NavigationUpdatesDetail(t *testing.T) {
	v := newTestView(testCalculation(), true)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})

	assert.Equal(t, 1, v.Selected())
	out := v.View()
	assert.Contains(t, out, "Train #2")
	assert.Contains(t, out, "3:4 = 0.750000")
	assert.Contains(t, out, "0.250000")
}

func TestView_NoTrains(t *testing.T) {
	calc := testCalculation()
	calc.Trains = nil
	v := newTestView(calc, true)

	out := v.View()

	assert.Contains(t, out, "No gear trains found")
	assert.NotContains(t, out, "Train #")
}

func TestView_SetSaved(t *testing.T) {
	v := newTestView(testCalculation(), true)

	v.SetSaved("calc-1", nil)
	assert.Contains(t, v.View(), "saved as calc-1")

	v.SetSaved("", errors.New("disk full"))
	assert.Contains(t, v.View(), "Save failed: disk full")
}

func TestView_SetCalculationClearsSaveNote(t *testing.T) {
	v := newTestView(testCalculation(), true)
	v.SetSaved("calc-1", nil)

	v.SetCalculation(testCalculation(), true)

	assert.NotContains(t, v.View(), "saved as")
}

func TestView_SetCalculationNil(t *testing.T) {
	v := newTestView(testCalculation(), true)

	v.SetCalculation(nil, false)

	assert.Nil(t, v.Calculation())
	assert.Contains(t, v.View(), "No calculation")
}

func TestView_Keys(t *testing.T) {
	v := newTestView(testCalculation(), true)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewForm}, cmd())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil)

	v.Update(tea.WindowSizeMsg{Width: 100, Height: 10})

	assert.Equal(t, 100, v.width)
	assert.Equal(t, 10, v.height)
}
