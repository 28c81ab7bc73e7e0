package engine

// countKey memoises permutationCount by (shafts, gears).
type countKey struct {
	shafts int
	gears  int
}

// permutationCount returns the number of candidate completions when shafts
// shafts remain to be assigned from a pool of gears gears. Every non-final
// shaft takes one gear or an ordered pair of distinct gears; the final shaft
// takes a single gear, so each remaining gear is one candidate.
func (e *Engine) permutationCount(shafts, gears int) uint64 {
	if gears <= 0 || shafts <= 0 {
		return 0
	}
	if shafts == 1 {
		return uint64(gears)
	}

	key := countKey{shafts: shafts, gears: gears}
	if n, ok := e.counts[key]; ok {
		return n
	}

	g := uint64(gears)
	n := g*e.permutationCount(shafts-1, gears-1) +
		g*(g-1)*e.permutationCount(shafts-1, gears-2)
	e.counts[key] = n
	return n
}
