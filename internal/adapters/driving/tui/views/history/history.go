// Package history provides the saved calculations view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
)

// defaultLimit caps the number of calculations listed.
const defaultLimit = 50

// View lists saved calculations, newest first.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	history  driving.HistoryService
	ctx      context.Context
	calcs    []domain.Calculation
	selected int
	limit    int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a history view. history may be nil when persistence is off.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		history: history,
		ctx:     context.Background(),
		limit:   defaultLimit,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for store calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the saved calculations.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.history == nil {
		return nil
	}
	v.loading = true
	ctx, history, limit := v.ctx, v.history, v.limit
	return func() tea.Msg {
		calcs, err := history.List(ctx, limit)
		return messages.HistoryLoaded{Calculations: calcs, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	ctx, history := v.ctx, v.history
	return func() tea.Msg {
		return messages.CalculationDeleted{ID: id, Err: history.Delete(ctx, id)}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.calcs = msg.Calculations
		}
		if v.selected >= len(v.calcs) {
			v.selected = max(len(v.calcs)-1, 0)
		}
		return v, nil

	case messages.CalculationDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.calcs)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.Select):
		if calc := v.SelectedCalculation(); calc != nil {
			selected := *calc
			return v, func() tea.Msg { return messages.CalculationSelected{Calculation: selected} }
		}
	case keymap.Matches(key, v.keymap.Delete):
		if calc := v.SelectedCalculation(); calc != nil && v.history != nil {
			return v, v.remove(calc.ID)
		}
	}
	return v, nil
}

// View renders the history list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	switch {
	case v.history == nil:
		b.WriteString(v.styles.Muted.Render("History is disabled"))
		return b.String()
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}
	if v.loading && len(v.calcs) == 0 {
		b.WriteString(v.styles.Muted.Render("Loading..."))
		return b.String()
	}
	if len(v.calcs) == 0 {
		b.WriteString(v.styles.Muted.Render("No saved calculations"))
		return b.String()
	}

	header := fmt.Sprintf("   %-16s %-6s %-10s %-8s %s", "Created", "Shafts", "Target", "Found", "Best")
	b.WriteString(v.styles.Subtitle.Render(header))
	b.WriteString("\n")
	for i := range v.calcs {
		b.WriteString(v.renderRow(i))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderRow(i int) string {
	c := &v.calcs[i]
	best := "-"
	if t := c.Best(); t != nil {
		best = t.String()
	}

	cursor := "  "
	if i == v.selected {
		cursor = "> "
	}
	line := fmt.Sprintf("%s %-16s %-6d %-10g %-8d %s",
		cursor, c.CreatedAt.Local().Format("2006-01-02 15:04"),
		c.Params.ShaftCount, c.Params.TargetMultiplier, c.Progress.Found, best)

	if i == v.selected {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Normal.Render(line)
}

// SetLimit sets the number of calculations listed.
func (v *View) SetLimit(limit int) {
	if limit > 0 {
		v.limit = limit
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Calculations returns the listed calculations.
func (v *View) Calculations() []domain.Calculation {
	return v.calcs
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedCalculation returns the selected calculation, or nil if none.
func (v *View) SelectedCalculation() *domain.Calculation {
	if v.selected < 0 || v.selected >= len(v.calcs) {
		return nil
	}
	return &v.calcs[v.selected]
}

// Err returns the last load or delete error.
func (v *View) Err() error {
	return v.err
}
