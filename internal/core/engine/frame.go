package engine

import (
	"slices"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// frame is the continuation of one shaft's pending gear enumeration.
//
// A frame owns its shafts and pool. Children always receive freshly
// allocated slices, so nothing a sibling branch does can reach back into
// shafts that an earlier frame has already committed.
type frame struct {
	// shafts is the train built so far, excluding the shaft being assigned.
	shafts []domain.Shaft

	// pool holds the gears not used by shallower shafts, ascending.
	pool []int

	// index is the position of the shaft being assigned.
	index int

	// inputIndex and outputIndex walk every (input, output) choice over pool.
	// Equal cursors select a single-gear shaft.
	inputIndex  int
	outputIndex int
}

// last returns the most recently committed shaft.
func (f *frame) last() domain.Shaft {
	return f.shafts[len(f.shafts)-1]
}

// extend returns a new shaft sequence with s appended. The clip forces a
// copy so the frame's own shafts are never written through.
func (f *frame) extend(s domain.Shaft) []domain.Shaft {
	return append(slices.Clip(f.shafts), s)
}

// redundant reports whether the (in, out) choice duplicates one already
// explored. The pool is sorted, so equal tooth counts are adjacent: a row
// whose input repeats the previous input repeats that whole row, and an
// output repeating the previous output repeats the previous column unless
// that column was the single-gear choice.
func redundant(pool []int, in, out int) bool {
	if in > 0 && pool[in] == pool[in-1] {
		return true
	}
	return out > 0 && out-1 != in && pool[out] == pool[out-1]
}

// without returns a copy of pool with the given positions removed.
// Larger positions go first so the smaller ones stay valid.
func without(pool []int, positions ...int) []int {
	next := slices.Clone(pool)
	slices.Sort(positions)
	for i := len(positions) - 1; i >= 0; i-- {
		p := positions[i]
		next = slices.Delete(next, p, p+1)
	}
	return next
}
