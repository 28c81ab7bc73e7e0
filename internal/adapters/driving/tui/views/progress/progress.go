// Package progress provides the running-search view for the TUI.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
)

// stepMsg reports the outcome of one budgeted Step. gen ties it to the run
// that produced it.
type stepMsg struct {
	gen      int
	done     bool
	progress domain.Progress
}

// View shows a running search and drives it one step per message.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	bar    progress.Model

	run      driving.CalculationRun
	budget   time.Duration
	gen      int
	stepping bool
	stopping bool
	progress domain.Progress
	started  time.Time

	width  int
	height int
}

// NewView creates a progress view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		bar: progress.New(
			progress.WithSolidFill(string(s.Theme().Highlight)),
			progress.WithWidth(60),
		),
		width:  80,
		height: 24,
	}
}

// Start takes over run and returns the command for its first step.
// The view never touches run from Update while a step is in flight.
func (v *View) Start(run driving.CalculationRun, budget time.Duration) tea.Cmd {
	v.gen++
	v.run = run
	v.budget = budget
	v.stopping = false
	v.progress = run.Progress()
	v.started = time.Now()
	return v.step()
}

func (v *View) step() tea.Cmd {
	run, budget, gen := v.run, v.budget, v.gen
	v.stepping = true
	return func() tea.Msg {
		done := run.Step(budget)
		return stepMsg{gen: gen, done: done, progress: run.Progress()}
	}
}

// finish ranks what the run has found and hands it to the app.
func (v *View) finish(complete bool) tea.Cmd {
	run := v.run
	v.run = nil
	v.stopping = false
	return func() tea.Msg {
		calc, err := run.Finish()
		return messages.CalculationCompleted{Calculation: calc, Complete: complete, Err: err}
	}
}

// Update handles step results and the stop key.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case stepMsg:
		if msg.gen != v.gen || v.run == nil {
			return v, nil
		}
		v.stepping = false
		v.progress = msg.progress
		if msg.done {
			return v, v.finish(true)
		}
		if v.stopping {
			return v, v.finish(false)
		}
		return v, v.step()

	case tea.KeyMsg:
		if v.run == nil || !keymap.Matches(msg.String(), v.keymap.Stop) {
			return v, nil
		}
		if v.stepping {
			v.stopping = true
			return v, nil
		}
		return v, v.finish(false)
	}

	return v, nil
}

// View renders the progress bar and counters.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Searching"))
	b.WriteString("\n\n")
	b.WriteString(v.bar.ViewAs(v.progress.Fraction()))
	b.WriteString("\n\n")

	p := v.progress
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%d of %d candidates", p.Processed(), p.Total)))
	b.WriteString("\n")
	b.WriteString(v.styles.Success.Render(fmt.Sprintf("found %d", p.Found)))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  skipped %d  discarded %d", p.Skipped, p.Discarded)))
	b.WriteString("\n")
	if !v.started.IsZero() {
		b.WriteString(v.styles.Muted.Render("elapsed " + time.Since(v.started).Round(time.Second).String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.stopping {
		b.WriteString(v.styles.Warning.Render("Stopping..."))
	} else {
		b.WriteString(v.styles.Help.Render("[esc] stop and keep the trains found so far"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	barWidth := width - 4
	if barWidth > 80 {
		barWidth = 80
	}
	if barWidth < 10 {
		barWidth = 10
	}
	v.bar.Width = barWidth
}

// Running reports whether a run is attached.
func (v *View) Running() bool {
	return v.run != nil
}

// Stopping reports whether a stop was requested while a step is in flight.
func (v *View) Stopping() bool {
	return v.stopping
}

// Progress returns the counters from the last completed step.
func (v *View) Progress() domain.Progress {
	return v.progress
}
