package engine

import (
	"slices"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// Engine is the resumable gear train permutation generator.
// An Engine is not safe for concurrent use; it is owned by one caller.
type Engine struct {
	params domain.CalculationParams

	// seeds is the pool for the first shaft and seedCursor the next one to try.
	seeds      []int
	seedCursor int

	stack    []frame
	results  []domain.GearTrain
	progress domain.Progress
	counts   map[countKey]uint64
	steps    uint64

	configured bool
	done       bool
	finalized  bool
}

// New creates an idle engine.
func New() *Engine {
	return &Engine{}
}

// Setup resets the engine for a new search. Params must already be valid:
// at least two shafts and positive, ascending gear pools.
func (e *Engine) Setup(params domain.CalculationParams) {
	params.ChangeGears = slices.Clone(params.ChangeGears)
	params.InputGears = slices.Clone(params.InputGears)

	e.params = params
	e.seeds = slices.Clone(params.SeedGears())
	e.seedCursor = 0
	e.stack = e.stack[:0]
	e.results = nil
	e.progress = domain.Progress{}
	e.counts = make(map[countKey]uint64)
	e.steps = 0
	e.configured = true
	e.done = false
	e.finalized = false

	downstream := len(params.ChangeGears)
	if params.SharedInputGears {
		downstream--
	}
	e.progress.Total = uint64(len(e.seeds)) * e.permutationCount(params.ShaftCount-1, downstream)
}

// Advance performs one bounded unit of work: a single frame step or a
// single first-shaft seed. It returns true once the search is complete,
// and keeps returning true without side effects afterwards.
//
// Advance panics if Setup has not been called.
func (e *Engine) Advance() bool {
	if !e.configured {
		panic("engine: Advance called before Setup")
	}
	if e.done {
		return true
	}

	if n := len(e.stack); n > 0 {
		f := e.stack[n-1]
		e.stack = e.stack[:n-1]
		e.steps++
		if f.index >= e.params.ShaftCount-1 {
			e.finish(f)
		} else {
			e.expand(f)
		}
		return false
	}

	if e.seedCursor >= len(e.seeds) {
		e.done = true
		return true
	}
	e.steps++
	e.seed()
	return false
}

// seed starts a branch for the next first-shaft gear.
func (e *Engine) seed() {
	gear := e.seeds[e.seedCursor]
	duplicate := e.seedCursor > 0 && gear == e.seeds[e.seedCursor-1]
	e.seedCursor++

	pool := e.downstreamPool(gear)
	if duplicate {
		e.progress.Skipped += e.permutationCount(e.params.ShaftCount-1, len(pool))
		return
	}

	e.push(frame{
		shafts: []domain.Shaft{domain.SingleGearShaft(gear, e.params.InputSpacerSize)},
		pool:   pool,
		index:  1,
	})
}

// downstreamPool returns the change gears available after the input shaft
// took gear. With a shared pool only the first matching gear is removed.
func (e *Engine) downstreamPool(gear int) []int {
	pool := slices.Clone(e.params.ChangeGears)
	if !e.params.SharedInputGears {
		return pool
	}
	if i := slices.Index(pool, gear); i >= 0 {
		pool = slices.Delete(pool, i, i+1)
	}
	return pool
}

// expand processes one (input, output) choice for an intermediate shaft.
// Branches are pruned as soon as the new shaft interferes with the previous
// one or the partial train passes the maximum distance. The whole branch's
// permutation count goes to discarded or skipped, so the counters still sum
// to the total.
func (e *Engine) expand(f frame) {
	if f.outputIndex >= len(f.pool) {
		f.outputIndex = 0
		f.inputIndex++
	}
	if f.inputIndex >= len(f.pool) {
		return
	}

	in, out := f.inputIndex, f.outputIndex
	var (
		shaft domain.Shaft
		next  []int
	)
	if in == out {
		shaft = domain.SingleGearShaft(f.pool[in], e.params.SpacerSize)
		next = without(f.pool, in)
	} else {
		shaft = domain.DoubleGearShaft(f.pool[in], f.pool[out])
		next = without(f.pool, in, out)
	}

	resume := f
	resume.outputIndex++
	e.push(resume)

	branch := e.permutationCount(e.params.ShaftCount-f.index-1, len(next))
	shafts := f.extend(shaft)

	switch {
	case redundant(f.pool, in, out):
		e.progress.Skipped += branch
	case domain.Interferes(f.last(), shaft, e.params.Addendum):
		e.progress.Discarded += branch
	case e.exceedsMaxDistance(shafts):
		e.progress.Skipped += branch
	default:
		e.push(frame{
			shafts: shafts,
			pool:   next,
			index:  f.index + 1,
		})
	}
}

// finish completes every train ending in a single gear from f's pool.
func (e *Engine) finish(f frame) {
	prev := f.last()
	for k, gear := range f.pool {
		if k > 0 && gear == f.pool[k-1] {
			e.progress.Skipped++
			continue
		}

		shaft := domain.SingleGearShaft(gear, e.params.SpacerSize)
		shafts := f.extend(shaft)

		if !e.withinDistance(shafts) {
			e.progress.Skipped++
			continue
		}
		if domain.Interferes(prev, shaft, e.params.Addendum) {
			e.progress.Discarded++
			continue
		}

		e.results = append(e.results, domain.NewGearTrain(shafts))
		e.progress.Found++
	}
}

// withinDistance applies the min/max spacing bounds to a complete train.
func (e *Engine) withinDistance(shafts []domain.Shaft) bool {
	if !e.params.HasDistanceBounds() {
		return true
	}
	spacing := domain.ShaftSpacing(shafts, e.params.Module, 0, len(shafts)-1)
	return e.params.WithinDistance(spacing)
}

// exceedsMaxDistance prunes a partial train already wider than the maximum.
// Spacing only grows as shafts are added, so the whole branch is out.
func (e *Engine) exceedsMaxDistance(shafts []domain.Shaft) bool {
	if e.params.MaxDistance <= 0 {
		return false
	}
	return domain.ShaftSpacing(shafts, e.params.Module, 0, len(shafts)-1) > e.params.MaxDistance
}

func (e *Engine) push(f frame) {
	e.stack = append(e.stack, f)
}

// Finalize ranks the accepted trains against the target multiplier and
// ends the search. Calling it again returns the same ranking.
func (e *Engine) Finalize() []domain.GearTrain {
	if !e.finalized {
		domain.RankTrains(e.results, e.params.TargetMultiplier)
		e.finalized = true
		e.done = true
		e.stack = nil
	}
	return e.Results()
}

// Results returns a copy of the accepted trains. They are unordered until
// Finalize has been called.
func (e *Engine) Results() []domain.GearTrain {
	return slices.Clone(e.results)
}

// Progress returns the current counters.
func (e *Engine) Progress() domain.Progress {
	return e.progress
}

// Params returns the parameters of the current search.
func (e *Engine) Params() domain.CalculationParams {
	return e.params
}

// Done returns true once the search is complete.
func (e *Engine) Done() bool {
	return e.done
}

// Finalized returns true once the results have been ranked.
func (e *Engine) Finalized() bool {
	return e.finalized
}

// State returns the phase the next Advance call will run.
func (e *Engine) State() State {
	switch {
	case !e.configured:
		return StateIdle
	case e.done:
		return StateDone
	case len(e.stack) == 0:
		return StateSeeding
	case e.stack[len(e.stack)-1].index >= e.params.ShaftCount-1:
		return StateFinalizing
	default:
		return StateExpanding
	}
}

// Depth returns the number of pending frames.
func (e *Engine) Depth() int {
	return len(e.stack)
}

// Steps returns how many Advance calls performed work.
func (e *Engine) Steps() uint64 {
	return e.steps
}
