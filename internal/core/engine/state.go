package engine

// State is the phase of a search.
type State int

const (
	// StateIdle means Setup has not been called.
	StateIdle State = iota
	// StateSeeding means the next step picks a first (input) shaft.
	StateSeeding
	// StateExpanding means the next step assigns an intermediate shaft.
	StateExpanding
	// StateFinalizing means the next step completes trains on the last shaft.
	StateFinalizing
	// StateDone means the search is exhausted or finalised.
	StateDone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeding:
		return "seeding"
	case StateExpanding:
		return "expanding"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
