package domain

import "time"

// CalculationParams configures a gear train search.
// The engine trusts these values; validation happens before a search starts.
type CalculationParams struct {
	// ShaftCount is the number of shafts in every generated train.
	ShaftCount int `json:"shaft_count" validate:"gte=2,lte=8"`

	// ChangeGears is the ascending pool of change-gear tooth counts.
	// The 400 tooth cap keeps the exact ratio of an 8 shaft train in an int64.
	ChangeGears []int `json:"change_gears" validate:"required,min=1,max=24,ascending,dive,gt=0,lte=400"`

	// InputGears is the ascending pool the first (input) shaft draws from
	// when SharedInputGears is false.
	InputGears []int `json:"input_gears,omitempty" validate:"omitempty,max=24,ascending,dive,gt=0,lte=400"`

	// SharedInputGears draws the input gear from ChangeGears instead.
	SharedInputGears bool `json:"shared_input_gears"`

	// TargetMultiplier is the desired overall transmission ratio.
	TargetMultiplier float64 `json:"target_multiplier" validate:"gt=0"`

	// Module is the gear module (pitch diameter per tooth) used for shaft spacing.
	Module float64 `json:"module" validate:"gt=0"`

	// Addendum is the tooth-height margin added per gear when checking clearance.
	Addendum float64 `json:"addendum" validate:"gte=0"`

	// SpacerSize is the spacer of single-gear intermediate and output shafts.
	SpacerSize int `json:"spacer_size" validate:"gte=0"`

	// InputSpacerSize is the spacer next to the input gear on the first shaft.
	InputSpacerSize int `json:"input_spacer_size" validate:"gte=0"`

	// MinDistance is the minimum first-to-last shaft spacing. Zero means unbounded.
	MinDistance float64 `json:"min_distance" validate:"gte=0"`

	// MaxDistance is the maximum first-to-last shaft spacing. Zero means unbounded.
	MaxDistance float64 `json:"max_distance" validate:"gte=0"`
}

// HasDistanceBounds returns true if either spacing bound is set.
func (p CalculationParams) HasDistanceBounds() bool {
	return p.MinDistance > 0 || p.MaxDistance > 0
}

// WithinDistance reports whether spacing satisfies the configured bounds.
func (p CalculationParams) WithinDistance(spacing float64) bool {
	if p.MinDistance > 0 && spacing < p.MinDistance {
		return false
	}
	if p.MaxDistance > 0 && spacing > p.MaxDistance {
		return false
	}
	return true
}

// SeedGears returns the pool the first shaft is drawn from.
func (p CalculationParams) SeedGears() []int {
	if p.SharedInputGears {
		return p.ChangeGears
	}
	return p.InputGears
}

// Progress holds the search bookkeeping counters.
// Found, Skipped and Discarded are disjoint and sum to Total once a search completes.
type Progress struct {
	// Found counts accepted trains.
	Found uint64

	// Skipped counts candidates pruned by symmetry or a distance bound.
	Skipped uint64

	// Discarded counts candidates rejected by the interference check.
	Discarded uint64

	// Total is the theoretical number of candidates.
	Total uint64
}

// Processed returns the number of candidates accounted for so far.
func (p Progress) Processed() uint64 {
	return p.Found + p.Skipped + p.Discarded
}

// Fraction returns the completed share of the search in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	f := float64(p.Processed()) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Calculation is a finished search: its inputs, counters and ranked trains.
type Calculation struct {
	// ID uniquely identifies a saved calculation.
	ID string

	// Name is an optional user label.
	Name string

	// Params are the inputs the search ran with.
	Params CalculationParams

	// Progress holds the final counters.
	Progress Progress

	// Trains are the accepted trains, best first. Saved calculations keep
	// only the leading trains.
	Trains []GearTrain

	// Duration is the wall-clock time spent searching.
	Duration time.Duration

	// CreatedAt is when the calculation finished.
	CreatedAt time.Time
}

// Best returns the top-ranked train, or nil if nothing was found.
func (c *Calculation) Best() *GearTrain {
	if len(c.Trains) == 0 {
		return nil
	}
	return &c.Trains[0]
}

// Truncate keeps at most limit trains. A limit of zero or less keeps all.
func (c *Calculation) Truncate(limit int) {
	if limit > 0 && len(c.Trains) > limit {
		c.Trains = c.Trains[:limit]
	}
}
