package bookmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

func sampleParams() domain.CalculationParams {
	return domain.CalculationParams{
		ShaftCount:       3,
		ChangeGears:      []int{20, 30, 40, 50},
		SharedInputGears: true,
		TargetMultiplier: 1,
		Module:           1.5,
		Addendum:         1.2,
	}
}

func TestEncode(t *testing.T) {
	got := Encode(sampleParams())

	assert.Equal(t, "addendum=1.2&gears=20,30,40,50&module=1.5&shafts=3&shared=1&target=1", got)
}

func TestEncode_OptionalFields(t *testing.T) {
	p := sampleParams()
	p.SharedInputGears = false
	p.InputGears = []int{24, 36}
	p.SpacerSize = 5
	p.InputSpacerSize = 7
	p.MinDistance = 40
	p.MaxDistance = 80.5

	got := Encode(p)

	assert.Contains(t, got, "input_gears=24,36")
	assert.Contains(t, got, "shared=0")
	assert.Contains(t, got, "spacer=5")
	assert.Contains(t, got, "input_spacer=7")
	assert.Contains(t, got, "min_distance=40")
	assert.Contains(t, got, "max_distance=80.5")
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		params domain.CalculationParams
	}{
		{"shared pool", sampleParams()},
		{"separate input pool", domain.CalculationParams{
			ShaftCount:       4,
			ChangeGears:      []int{20, 25, 127},
			InputGears:       []int{24},
			TargetMultiplier: 0.1234567890123,
			Module:           0.8,
			Addendum:         0,
			SpacerSize:       3,
			InputSpacerSize:  4,
			MinDistance:      12.25,
			MaxDistance:      99,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Encode(tt.params))
			require.NoError(t, err)
			assert.Equal(t, tt.params, got)
		})
	}
}

func TestDecode_AcceptsURLForms(t *testing.T) {
	inputs := []string{
		"shafts=2&gears=20,40&shared=1&target=0.5&module=1",
		"?shafts=2&gears=20,40&shared=1&target=0.5&module=1",
		"https://example.com/calc?shafts=2&gears=20%2C40&shared=true&target=0.5&module=1",
		"  shafts=2&gears=20, 40&shared=1&target=0.5&module=1  ",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := Decode(in)
			require.NoError(t, err)
			assert.Equal(t, 2, got.ShaftCount)
			assert.Equal(t, []int{20, 40}, got.ChangeGears)
			assert.True(t, got.SharedInputGears)
			assert.Equal(t, 0.5, got.TargetMultiplier)
		})
	}
}

func TestApply_KeepsBaseForAbsentKeys(t *testing.T) {
	base := sampleParams()

	got, err := Apply("target=2&spacer=6", base)

	require.NoError(t, err)
	assert.Equal(t, 2.0, got.TargetMultiplier)
	assert.Equal(t, 6, got.SpacerSize)
	assert.Equal(t, base.ChangeGears, got.ChangeGears)
	assert.Equal(t, base.Module, got.Module)
}

func TestDecode_Errors(t *testing.T) {
	inputs := []string{
		"shafts=three",
		"gears=20,x",
		"shared=maybe",
		"target=fast",
		"module=%zz",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Decode(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestDecode_IgnoresUnknownKeys(t *testing.T) {
	got, err := Decode("shafts=3&colour=red")

	require.NoError(t, err)
	assert.Equal(t, 3, got.ShaftCount)
}
