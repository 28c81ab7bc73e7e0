package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

func sampleTrains() []domain.GearTrain {
	return []domain.GearTrain{
		domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(30, 0), domain.SingleGearShaft(30, 0)}),
		domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(30, 0), domain.SingleGearShaft(40, 0)}),
		domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(20, 0), domain.SingleGearShaft(40, 0)}),
	}
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewTrainList(t *testing.T) {
	l := NewTrainList(styles.DefaultStyles())

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Selected())
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedTrain())
}

func TestNewTrainList_NilStyles(t *testing.T) {
	l := NewTrainList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
}

func TestTrainList_SetTrainsResetsSelection(t *testing.T) {
	l := NewTrainList(nil)
	l.SetTrains(sampleTrains(), 1)
	l.SetSelected(2)

	l.SetTrains(sampleTrains(), 1)

	assert.Equal(t, 3, l.Count())
	assert.Equal(t, 0, l.Selected())
	assert.Len(t, l.Trains(), 3)
}

func TestTrainList_SetSelectedOutOfRange(t *testing.T) {
	l := NewTrainList(nil)
	l.SetTrains(sampleTrains(), 1)

	l.SetSelected(5)
	assert.Equal(t, 0, l.Selected())

	l.SetSelected(-1)
	assert.Equal(t, 0, l.Selected())
}

func TestTrainList_Navigation(t *testing.T) {
	l := NewTrainList(nil)
	l.SetTrains(sampleTrains(), 1)

	l.Update(keyRunes('j'))
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, l.Selected())

	l.Update(keyRunes('j'))
	assert.Equal(t, 2, l.Selected(), "stays on the last train")

	l.Update(keyRunes('k'))
	assert.Equal(t, 1, l.Selected())

	l.Update(keyRunes('g'))
	assert.Equal(t, 0, l.Selected())

	l.Update(keyRunes('G'))
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, l.Selected())
}

func TestTrainList_MoveUpAtTop(t *testing.T) {
	l := NewTrainList(nil)
	l.SetTrains(sampleTrains(), 1)

	l.MoveUp()

	assert.Equal(t, 0, l.Selected())
}

func TestTrainList_SelectedTrain(t *testing.T) {
	l := NewTrainList(nil)
	l.SetTrains(sampleTrains(), 1)
	l.MoveDown()

	train := l.SelectedTrain()

	require.NotNil(t, train)
	assert.Equal(t, "30 > 40", train.String())
}

func TestTrainList_ViewEmpty(t *testing.T) {
	l := NewTrainList(nil)

	assert.Contains(t, l.View(), "No gear trains found")
}

func TestTrainList_View(t *testing.T) {
	l := NewTrainList(nil)
	l.SetDimensions(100, 10)
	l.SetTrains(sampleTrains(), 1)

	view := l.View()

	assert.Contains(t, view, "Train")
	assert.Contains(t, view, "30 > 30")
	assert.Contains(t, view, "3:4")
	assert.Contains(t, view, "0.250000")
	assert.Contains(t, view, "> ")
}

func TestTrainList_ViewScrollsToSelection(t *testing.T) {
	l := NewTrainList(nil)
	l.SetDimensions(100, 3) // one visible train
	l.SetTrains(sampleTrains(), 1)

	assert.Contains(t, l.View(), "2 more")

	l.SetSelected(2)
	view := l.View()

	assert.Contains(t, view, "20 > 40")
	assert.NotContains(t, view, "30 > 30")
	assert.NotContains(t, view, "more")
}
