// Package results provides the ranked gear train view for the TUI.
package results

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/changegear/internal/adapters/driving/bookmark"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

// detailLines is the height reserved below the list for the selected train.
const detailLines = 12

// View shows a calculation's counters, its ranked trains and the selected train.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	list     *list.TrainList
	calc     *domain.Calculation
	complete bool
	saveNote string
	saveErr  error
	width    int
	height   int
}

// NewView creates a results view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		list:   list.NewTrainList(s),
	}
	v.SetDimensions(80, 24)
	return v
}

// SetCalculation shows calc. complete is false for a search stopped early.
func (v *View) SetCalculation(calc *domain.Calculation, complete bool) {
	v.calc = calc
	v.complete = complete
	v.saveNote = ""
	v.saveErr = nil
	if calc == nil {
		v.list.SetTrains(nil, 0)
		return
	}
	v.list.SetTrains(calc.Trains, calc.Params.TargetMultiplier)
}

// SetSaved records the outcome of saving the calculation to history.
func (v *View) SetSaved(id string, err error) {
	v.saveErr = err
	if err == nil {
		v.saveNote = "saved as " + id
	}
}

// Update handles messages for the results view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Back):
			return v, changeView(messages.ViewMenu)
		case keymap.Matches(msg.String(), v.keymap.NewCalculation):
			return v, changeView(messages.ViewForm)
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}

	return v, nil
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the results.
func (v *View) View() string {
	if v.calc == nil {
		return v.styles.Muted.Render("No calculation")
	}

	var b strings.Builder
	c := v.calc
	p := c.Progress

	b.WriteString(v.styles.Title.Render("Results"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
		"Searched %d candidates in %s: %d found, %d skipped, %d discarded",
		p.Total, c.Duration.Round(time.Millisecond), p.Found, p.Skipped, p.Discarded)))
	b.WriteString("\n")
	if !v.complete {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf(
			"Stopped early after %d of %d candidates: partial results, not saved", p.Processed(), p.Total)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(v.list.View())
	b.WriteString("\n")

	if t := v.list.SelectedTrain(); t != nil {
		b.WriteString("\n")
		b.WriteString(v.renderDetail(t))
	}

	b.WriteString("\n")
	b.WriteString(v.line("Bookmark", bookmark.Encode(c.Params)))
	switch {
	case v.saveErr != nil:
		b.WriteString(v.styles.Error.Render("Save failed: " + v.saveErr.Error()))
		b.WriteString("\n")
	case v.saveNote != "":
		b.WriteString(v.styles.Success.Render(v.saveNote))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderDetail(t *domain.GearTrain) string {
	params := v.calc.Params

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Train #%d", v.list.Selected()+1)))
	b.WriteString("\n")
	for i, s := range t.Shafts {
		role := "idler"
		switch i {
		case 0:
			role = "input"
		case len(t.Shafts) - 1:
			role = "output"
		}
		kind := "single"
		if s.Double {
			kind = "double"
		}
		b.WriteString(v.line(fmt.Sprintf("Shaft %d", i+1), fmt.Sprintf("%s (%s, %s)", s, role, kind)))
	}
	b.WriteString(v.line("Ratio", fmt.Sprintf("%s = %.6f", t.RatioString(), t.OutputMultiplier)))
	b.WriteString(v.line("Deviation", fmt.Sprintf("%.6f", t.Deviation(params.TargetMultiplier))))
	b.WriteString(v.line("Max force", fmt.Sprintf("%.4f", t.MaxForce)))
	b.WriteString(v.line("Distance", fmt.Sprintf("%.1f", t.TotalDistance(params.Module))))
	return b.String()
}

func (v *View) line(label, value string) string {
	return v.styles.Label.Render(label) + v.styles.Value.Render(value) + "\n"
}

// SetDimensions sets the view dimensions. The list gets what is left after
// the header and the detail panel.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	listHeight := height - detailLines - 6
	if listHeight < 3 {
		listHeight = 3
	}
	v.list.SetDimensions(width, listHeight)
}

// Calculation returns the calculation on screen.
func (v *View) Calculation() *domain.Calculation {
	return v.calc
}

// Complete reports whether the calculation on screen ran to completion.
func (v *View) Complete() bool {
	return v.complete
}

// Selected returns the index of the selected train.
func (v *View) Selected() int {
	return v.list.Selected()
}
