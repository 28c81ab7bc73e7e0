package domain

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// GearTrain is an ordered sequence of shafts with its derived quantities.
// It is a snapshot: NewGearTrain copies the shafts and computes everything
// up front, and nothing mutates a train afterwards.
type GearTrain struct {
	// Shafts are the axle stages from the driving (input) shaft to the driven one.
	Shafts []Shaft

	// Numerator is the product of every driving gear's tooth count.
	// Zero when the product does not fit in an int64.
	Numerator int64

	// Denominator is the product of every driven gear's tooth count.
	// Zero when the product does not fit in an int64.
	Denominator int64

	// OutputMultiplier is Numerator / Denominator, the overall transmission ratio.
	OutputMultiplier float64

	// MaxForce is the relative worst-case tooth load across the train.
	// Lower is mechanically preferable.
	MaxForce float64
}

// NewGearTrain builds a train from shafts and computes its derived fields.
func NewGearTrain(shafts []Shaft) GearTrain {
	owned := make([]Shaft, len(shafts))
	copy(owned, shafts)

	t := GearTrain{
		Shafts:   owned,
		MaxForce: maxForce(owned),
	}
	if num, den, ok := multiplierTerms(owned); ok {
		t.Numerator, t.Denominator = num, den
		t.OutputMultiplier = float64(num) / float64(den)
	} else {
		t.OutputMultiplier = multiplierProduct(owned)
	}
	return t
}

// multiplierTerms multiplies out previous.OutputGear / current.InputGear
// for every consecutive pair without dividing. ok is false when either
// product leaves the int64 range.
func multiplierTerms(shafts []Shaft) (num, den int64, ok bool) {
	num, den = 1, 1
	for i := 1; i < len(shafts); i++ {
		if num, ok = mulExact(num, shafts[i-1].OutputGear); !ok {
			return 0, 0, false
		}
		if den, ok = mulExact(den, shafts[i].InputGear); !ok {
			return 0, 0, false
		}
	}
	return num, den, den != 0
}

// mulExact multiplies a positive product by a tooth count.
func mulExact(a int64, teeth int) (int64, bool) {
	if a < 0 || teeth < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(a), uint64(teeth))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// multiplierProduct is the floating point form of the multiplier, used when
// the exact products overflow.
func multiplierProduct(shafts []Shaft) float64 {
	m := 1.0
	for i := 1; i < len(shafts); i++ {
		m *= float64(shafts[i-1].OutputGear) / float64(shafts[i].InputGear)
	}
	return m
}

// maxForce walks the train with a unit torque on the first shaft. Torque
// scales by InputGear[i] / OutputGear[i-1] at each mesh, and each gear sees
// torque divided by its tooth count.
func maxForce(shafts []Shaft) float64 {
	torque := 1.0
	worst := 0.0
	for i, s := range shafts {
		if i > 0 {
			torque *= float64(s.InputGear) / float64(shafts[i-1].OutputGear)
		}
		for _, teeth := range s.Teeth() {
			if f := torque / float64(teeth); f > worst {
				worst = f
			}
		}
	}
	return worst
}

// ShaftSpacing sums the centre distances of the meshing pairs between shaft
// first and shaft last, scaled by the gear module. Indices are clamped to the
// slice; an empty window has zero spacing.
func ShaftSpacing(shafts []Shaft, module float64, first, last int) float64 {
	if first < 0 {
		first = 0
	}
	if last > len(shafts)-1 {
		last = len(shafts) - 1
	}
	total := 0.0
	for i := first + 1; i <= last; i++ {
		total += module * float64(shafts[i-1].OutputGear+shafts[i].InputGear) / 2
	}
	return total
}

// ShaftDistance returns the spacing between shaft first and shaft last.
func (t GearTrain) ShaftDistance(module float64, first, last int) float64 {
	return ShaftSpacing(t.Shafts, module, first, last)
}

// TotalDistance returns the spacing from the first to the last shaft.
func (t GearTrain) TotalDistance(module float64) float64 {
	return ShaftSpacing(t.Shafts, module, 0, len(t.Shafts)-1)
}

// Deviation returns the absolute difference between the train's multiplier and target.
func (t GearTrain) Deviation(target float64) float64 {
	d := t.OutputMultiplier - target
	if d < 0 {
		return -d
	}
	return d
}

// Ratio returns the multiplier as a reduced fraction.
func (t GearTrain) Ratio() (num, den int64) {
	num, den = t.Numerator, t.Denominator
	if g := gcd(num, den); g > 1 {
		num /= g
		den /= g
	}
	return num, den
}

// String renders the shafts in drive order, e.g. "20 > 40/30 > 50".
func (t GearTrain) String() string {
	parts := make([]string, len(t.Shafts))
	for i, s := range t.Shafts {
		parts[i] = s.String()
	}
	return strings.Join(parts, " > ")
}

// RatioString renders the reduced ratio as "num:den", or the multiplier
// as "x:1" when the exact ratio is not available.
func (t GearTrain) RatioString() string {
	if t.Denominator == 0 {
		return fmt.Sprintf("%.6f:1", t.OutputMultiplier)
	}
	num, den := t.Ratio()
	return fmt.Sprintf("%d:%d", num, den)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
