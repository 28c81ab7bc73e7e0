// Package bookmark converts calculation parameters to and from URL query
// strings, so that a search can be shared or repeated with one argument:
//
//	shafts=3&gears=20,30,40,50&shared=1&target=1&module=1&addendum=1.2
package bookmark

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// fields mirrors domain.CalculationParams with query names.
type fields struct {
	Shafts      int     `url:"shafts"`
	Gears       []int   `url:"gears,comma"`
	InputGears  []int   `url:"input_gears,comma,omitempty"`
	Shared      bool    `url:"shared,int"`
	Target      float64 `url:"target"`
	Module      float64 `url:"module"`
	Addendum    float64 `url:"addendum"`
	Spacer      int     `url:"spacer,omitempty"`
	InputSpacer int     `url:"input_spacer,omitempty"`
	MinDistance float64 `url:"min_distance,omitempty"`
	MaxDistance float64 `url:"max_distance,omitempty"`
}

// Encode renders params as a query string without the leading "?".
func Encode(p domain.CalculationParams) string {
	values, err := query.Values(fields{
		Shafts:      p.ShaftCount,
		Gears:       p.ChangeGears,
		InputGears:  p.InputGears,
		Shared:      p.SharedInputGears,
		Target:      p.TargetMultiplier,
		Module:      p.Module,
		Addendum:    p.Addendum,
		Spacer:      p.SpacerSize,
		InputSpacer: p.InputSpacerSize,
		MinDistance: p.MinDistance,
		MaxDistance: p.MaxDistance,
	})
	if err != nil {
		// query.Values only fails for non-struct input.
		panic(fmt.Sprintf("bookmark: %v", err))
	}
	return strings.ReplaceAll(values.Encode(), "%2C", ",")
}

// Decode parses a bookmark into params. Keys that are absent are left zero.
func Decode(bookmark string) (domain.CalculationParams, error) {
	return Apply(bookmark, domain.CalculationParams{})
}

// Apply overlays the keys present in bookmark onto base. The bookmark may be
// a bare query, a query with a leading "?", or a full URL.
func Apply(bookmark string, base domain.CalculationParams) (domain.CalculationParams, error) {
	values, err := parse(bookmark)
	if err != nil {
		return domain.CalculationParams{}, err
	}

	p := base
	d := decoder{values: values}
	d.readInt("shafts", &p.ShaftCount)
	d.readInts("gears", &p.ChangeGears)
	d.readInts("input_gears", &p.InputGears)
	d.readBool("shared", &p.SharedInputGears)
	d.readFloat("target", &p.TargetMultiplier)
	d.readFloat("module", &p.Module)
	d.readFloat("addendum", &p.Addendum)
	d.readInt("spacer", &p.SpacerSize)
	d.readInt("input_spacer", &p.InputSpacerSize)
	d.readFloat("min_distance", &p.MinDistance)
	d.readFloat("max_distance", &p.MaxDistance)
	if d.err != nil {
		return domain.CalculationParams{}, d.err
	}
	return p, nil
}

func parse(bookmark string) (url.Values, error) {
	raw := strings.TrimSpace(bookmark)
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bookmark: %v", domain.ErrInvalidInput, err)
		}
		raw = u.RawQuery
	} else if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: bookmark: %v", domain.ErrInvalidInput, err)
	}
	return values, nil
}

// decoder records the first parse error and skips the remaining keys.
type decoder struct {
	values url.Values
	err    error
}

func (d *decoder) lookup(key string) (string, bool) {
	if d.err != nil || !d.values.Has(key) {
		return "", false
	}
	return strings.TrimSpace(d.values.Get(key)), true
}

func (d *decoder) fail(key, value string) {
	d.err = fmt.Errorf("%w: bookmark %s=%q", domain.ErrInvalidInput, key, value)
}

func (d *decoder) readInt(key string, dst *int) {
	v, ok := d.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		d.fail(key, v)
		return
	}
	*dst = n
}

func (d *decoder) readFloat(key string, dst *float64) {
	v, ok := d.lookup(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		d.fail(key, v)
		return
	}
	*dst = f
}

func (d *decoder) readBool(key string, dst *bool) {
	v, ok := d.lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		d.fail(key, v)
		return
	}
	*dst = b
}

func (d *decoder) readInts(key string, dst *[]int) {
	v, ok := d.lookup(key)
	if !ok {
		return
	}
	if v == "" {
		*dst = nil
		return
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			d.fail(key, v)
			return
		}
		out = append(out, n)
	}
	*dst = out
}
