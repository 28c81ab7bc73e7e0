package domain

import "fmt"

// Shaft is one axle stage of a gear train. It carries either a single gear,
// which both receives and passes on the drive, or two co-rotating gears.
type Shaft struct {
	// InputGear is the tooth count meshing with the previous shaft's output gear.
	InputGear int `json:"input_gear"`

	// OutputGear is the tooth count driving the next shaft.
	// Equal to InputGear on a single-gear shaft.
	OutputGear int `json:"output_gear"`

	// SpacerSize is the tooth-count equivalent of the axial spacer occupying
	// the second gear position on a single-gear shaft. Only used for interference.
	SpacerSize int `json:"spacer_size,omitempty"`

	// Double is true when the shaft carries two gears.
	Double bool `json:"double,omitempty"`
}

// SingleGearShaft returns a shaft carrying one gear and a spacer.
func SingleGearShaft(gear, spacer int) Shaft {
	return Shaft{
		InputGear:  gear,
		OutputGear: gear,
		SpacerSize: spacer,
	}
}

// DoubleGearShaft returns a shaft carrying two co-rotating gears.
func DoubleGearShaft(input, output int) Shaft {
	return Shaft{
		InputGear:  input,
		OutputGear: output,
		Double:     true,
	}
}

// GearCount returns 1 or 2.
func (s Shaft) GearCount() int {
	if s.Double {
		return 2
	}
	return 1
}

// IsSingle returns true if the shaft carries one gear.
func (s Shaft) IsSingle() bool {
	return !s.Double
}

// Teeth returns the tooth counts mounted on the shaft, input gear first.
func (s Shaft) Teeth() []int {
	if s.IsSingle() {
		return []int{s.InputGear}
	}
	return []int{s.InputGear, s.OutputGear}
}

// String renders the shaft as "40" or "40/60".
func (s Shaft) String() string {
	if s.IsSingle() {
		return fmt.Sprintf("%d", s.InputGear)
	}
	return fmt.Sprintf("%d/%d", s.InputGear, s.OutputGear)
}
