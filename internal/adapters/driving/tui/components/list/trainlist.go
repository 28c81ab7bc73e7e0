// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

// TrainList displays ranked gear trains in a navigable list, one per line.
type TrainList struct {
	trains   []domain.GearTrain
	target   float64
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewTrainList creates a new train list component.
func NewTrainList(s *styles.Styles) *TrainList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &TrainList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (l *TrainList) Update(msg tea.Msg) (*TrainList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.trains) > 0 {
				l.selected = len(l.trains) - 1
			}
		}
	}
	return l, nil
}

// View renders the visible window of trains around the selection.
func (l *TrainList) View() string {
	if len(l.trains) == 0 {
		return l.styles.Muted.Render("No gear trains found")
	}

	lines := make([]string, 0, l.visibleCount()+2)
	header := fmt.Sprintf("   %-4s %-*s %-12s %-10s %s", "#", l.trainWidth(), "Train", "Ratio", "Deviation", "Max force")
	lines = append(lines, l.styles.Subtitle.Render(header))

	start, end := l.window()
	for i := start; i < end; i++ {
		lines = append(lines, l.renderTrain(i))
	}
	if end < len(l.trains) {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("   … %d more", len(l.trains)-end)))
	}
	return strings.Join(lines, "\n")
}

func (l *TrainList) renderTrain(index int) string {
	t := &l.trains[index]

	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := t.String()
	if w := l.trainWidth(); len(name) > w {
		name = name[:w-1] + "…"
	}

	line := fmt.Sprintf("%s %-4d %-*s %-12s %-10.6f %.4f",
		indicator, index+1, l.trainWidth(), name, t.RatioString(), t.Deviation(l.target), t.MaxForce)

	switch {
	case index == l.selected:
		return l.styles.Selected.Render(line)
	case index == 0:
		return l.styles.Best.Render(line)
	default:
		return l.styles.Normal.Render(line)
	}
}

// trainWidth is the column width left for the train after the fixed columns.
func (l *TrainList) trainWidth() int {
	w := l.width - 40
	if w < 12 {
		w = 12
	}
	return w
}

func (l *TrainList) visibleCount() int {
	n := l.height - 2
	if n < 1 {
		n = 1
	}
	return n
}

func (l *TrainList) window() (start, end int) {
	visible := l.visibleCount()
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end = start + visible
	if end > len(l.trains) {
		end = len(l.trains)
	}
	return start, end
}

// SetTrains replaces the trains and resets the selection. Deviation is
// measured against target.
func (l *TrainList) SetTrains(trains []domain.GearTrain, target float64) {
	l.trains = trains
	l.target = target
	l.selected = 0
}

// Trains returns the current trains.
func (l *TrainList) Trains() []domain.GearTrain {
	return l.trains
}

// Selected returns the index of the selected train.
func (l *TrainList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index. Out of range indexes are ignored.
func (l *TrainList) SetSelected(index int) {
	if index >= 0 && index < len(l.trains) {
		l.selected = index
	}
}

// SelectedTrain returns the currently selected train, or nil if none.
func (l *TrainList) SelectedTrain() *domain.GearTrain {
	if l.selected < 0 || l.selected >= len(l.trains) {
		return nil
	}
	return &l.trains[l.selected]
}

// MoveUp moves selection up.
func (l *TrainList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *TrainList) MoveDown() {
	if l.selected < len(l.trains)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *TrainList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of trains.
func (l *TrainList) Count() int {
	return len(l.trains)
}

// IsEmpty returns whether the list is empty.
func (l *TrainList) IsEmpty() bool {
	return len(l.trains) == 0
}
