package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

func TestWithout(t *testing.T) {
	pool := []int{20, 30, 40, 50}

	assert.Equal(t, []int{20, 40, 50}, without(pool, 1))
	assert.Equal(t, []int{30, 50}, without(pool, 2, 0))
	assert.Equal(t, []int{20, 30}, without(pool, 3, 2))
	assert.Equal(t, []int{20, 30, 40, 50}, pool, "source pool must not change")
}

func TestRedundant(t *testing.T) {
	pool := []int{20, 20, 30, 30}

	tests := []struct {
		name    string
		in, out int
		want    bool
	}{
		{"first single", 0, 0, false},
		{"double of equal teeth", 0, 1, false},
		{"first output of a new value", 0, 2, false},
		{"repeated output", 0, 3, true},
		{"repeated input row", 1, 0, true},
		{"repeated input row single", 1, 1, true},
		{"equal teeth after single column", 2, 3, false},
		{"new input row", 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redundant(pool, tt.in, tt.out))
		})
	}
}

func TestFrame_ExtendDoesNotAlias(t *testing.T) {
	base := make([]domain.Shaft, 1, 8)
	base[0] = domain.SingleGearShaft(20, 0)
	f := frame{shafts: base}

	a := f.extend(domain.SingleGearShaft(30, 0))
	b := f.extend(domain.SingleGearShaft(40, 0))

	assert.Equal(t, 30, a[1].InputGear)
	assert.Equal(t, 40, b[1].InputGear)
	assert.Len(t, f.shafts, 1)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "seeding", StateSeeding.String())
	assert.Equal(t, "expanding", StateExpanding.String())
	assert.Equal(t, "finalizing", StateFinalizing.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", State(99).String())
}
