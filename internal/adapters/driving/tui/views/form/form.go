// Package form provides the calculation parameter form for the TUI.
package form

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/changegear/internal/adapters/driving/bookmark"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
	"github.com/custodia-labs/changegear/internal/core/services"
)

// Field positions in the form.
const (
	FieldShafts = iota
	FieldGears
	FieldInputGears
	FieldTarget
	FieldModule
	FieldAddendum
	FieldSpacer
	FieldInputSpacer
	FieldMinDistance
	FieldMaxDistance
	FieldBookmark
	fieldCount
)

// errFieldInput marks a value that failed to parse. The field carries the detail.
var errFieldInput = errors.New("check the highlighted fields")

// View is the parameter entry form.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	calculator driving.CalculatorService
	fields     []*input.Field
	focus      int
	err        error
	width      int
	height     int
}

// NewView creates a form backed by calculator for validation.
func NewView(s *styles.Styles, calculator driving.CalculatorService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	fields := make([]*input.Field, fieldCount)
	fields[FieldShafts] = input.NewField(s, "Shafts", "2 to 8")
	fields[FieldGears] = input.NewField(s, "Change gears", "20, 25, 30, 127")
	fields[FieldInputGears] = input.NewField(s, "Input gears", "blank to share the change gears")
	fields[FieldTarget] = input.NewField(s, "Target ratio", "1.5")
	fields[FieldModule] = input.NewField(s, "Module", "1")
	fields[FieldAddendum] = input.NewField(s, "Addendum", "1")
	fields[FieldSpacer] = input.NewField(s, "Spacer", "0")
	fields[FieldInputSpacer] = input.NewField(s, "Input spacer", "0")
	fields[FieldMinDistance] = input.NewField(s, "Min distance", "0 for none")
	fields[FieldMaxDistance] = input.NewField(s, "Max distance", "0 for none")
	fields[FieldBookmark] = input.NewField(s, "Bookmark", "overrides the fields above")

	v := &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		calculator: calculator,
		fields:     fields,
		width:      80,
		height:     24,
	}
	v.Load(domain.DefaultAppSettings().Calculator.Params)
	return v
}

// Init focuses the first field.
func (v *View) Init() tea.Cmd {
	return v.setFocus(0)
}

// Load fills the fields from params and clears errors.
func (v *View) Load(p domain.CalculationParams) {
	v.fields[FieldShafts].SetValue(strconv.Itoa(p.ShaftCount))
	v.fields[FieldGears].SetValue(joinGears(p.ChangeGears))
	if p.SharedInputGears {
		v.fields[FieldInputGears].SetValue("")
	} else {
		v.fields[FieldInputGears].SetValue(joinGears(p.InputGears))
	}
	v.fields[FieldTarget].SetValue(formatFloat(p.TargetMultiplier))
	v.fields[FieldModule].SetValue(formatFloat(p.Module))
	v.fields[FieldAddendum].SetValue(formatFloat(p.Addendum))
	v.fields[FieldSpacer].SetValue(strconv.Itoa(p.SpacerSize))
	v.fields[FieldInputSpacer].SetValue(strconv.Itoa(p.InputSpacerSize))
	v.fields[FieldMinDistance].SetValue(formatFloat(p.MinDistance))
	v.fields[FieldMaxDistance].SetValue(formatFloat(p.MaxDistance))
	v.fields[FieldBookmark].SetValue("")
	v.clearErrors()
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case keymap.Matches(msg.String(), v.keymap.Submit):
			return v, v.submit()
		case keymap.Matches(msg.String(), v.keymap.NextField):
			return v, v.setFocus((v.focus + 1) % fieldCount)
		case keymap.Matches(msg.String(), v.keymap.PrevField):
			return v, v.setFocus((v.focus + fieldCount - 1) % fieldCount)
		}
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v *View) setFocus(i int) tea.Cmd {
	v.fields[v.focus].Blur()
	v.focus = i
	return v.fields[i].Focus()
}

// submit validates the form and requests a calculation.
func (v *View) submit() tea.Cmd {
	p, err := v.Params()
	if err == nil && v.calculator != nil {
		p, err = v.calculator.Validate(p)
	}
	v.err = err
	if err != nil {
		return nil
	}
	return func() tea.Msg {
		return messages.CalculationRequested{Params: p}
	}
}

// Params parses the fields. A parse failure sets a hint on the offending
// field; the bookmark, when present, is applied last.
func (v *View) Params() (domain.CalculationParams, error) {
	v.clearErrors()

	var p domain.CalculationParams
	ok := true
	ok = v.readInt(FieldShafts, &p.ShaftCount) && ok
	ok = v.readGears(FieldGears, &p.ChangeGears) && ok
	ok = v.readGears(FieldInputGears, &p.InputGears) && ok
	p.SharedInputGears = len(p.InputGears) == 0
	ok = v.readFloat(FieldTarget, &p.TargetMultiplier) && ok
	ok = v.readFloat(FieldModule, &p.Module) && ok
	ok = v.readFloat(FieldAddendum, &p.Addendum) && ok
	ok = v.readInt(FieldSpacer, &p.SpacerSize) && ok
	ok = v.readInt(FieldInputSpacer, &p.InputSpacerSize) && ok
	ok = v.readFloat(FieldMinDistance, &p.MinDistance) && ok
	ok = v.readFloat(FieldMaxDistance, &p.MaxDistance) && ok
	if !ok {
		return domain.CalculationParams{}, errFieldInput
	}

	if bm := strings.TrimSpace(v.fields[FieldBookmark].Value()); bm != "" {
		applied, err := bookmark.Apply(bm, p)
		if err != nil {
			v.fields[FieldBookmark].SetHint("invalid bookmark")
			return domain.CalculationParams{}, err
		}
		p = applied
	}
	return p, nil
}

func (v *View) readInt(i int, dst *int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(v.fields[i].Value()))
	if err != nil {
		v.fields[i].SetHint("whole number")
		return false
	}
	*dst = n
	return true
}

func (v *View) readFloat(i int, dst *float64) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.fields[i].Value()), 64)
	if err != nil {
		v.fields[i].SetHint("number")
		return false
	}
	*dst = f
	return true
}

func (v *View) readGears(i int, dst *[]int) bool {
	gears, err := services.ParseGearList(v.fields[i].Value())
	if err != nil {
		v.fields[i].SetHint(err.Error())
		return false
	}
	*dst = gears
	return true
}

func (v *View) clearErrors() {
	v.err = nil
	for _, f := range v.fields {
		f.SetHint("")
	}
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("New calculation"))
	b.WriteString("\n\n")
	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	for _, f := range v.fields {
		f.SetWidth(width - 26)
	}
}

// Focus returns the index of the focused field.
func (v *View) Focus() int {
	return v.focus
}

// Field returns the field at index i.
func (v *View) Field(i int) *input.Field {
	return v.fields[i]
}

// Err returns the last submit error.
func (v *View) Err() error {
	return v.err
}

func joinGears(gears []int) string {
	parts := make([]string, len(gears))
	for i, g := range gears {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
