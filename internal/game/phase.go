package game

// Phase is the session's state-machine state.
type Phase int

// Session phases.
const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseReady
	PhasePlaying
	PhaseWon
	PhaseTimedOut
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelecting:
		return "selecting"
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Finished reports whether the phase ends an attempt.
func (p Phase) Finished() bool {
	return p == PhaseWon || p == PhaseTimedOut
}
