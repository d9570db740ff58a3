package session

// State identifies where a session is in its validation lifecycle.
//
// Legal transitions: Idle → Validating → Ready when a run completes,
// Ready → Idle when a new edit is scheduled, and Ready → Applying →
// Validating when fixes are committed. No other edges exist.
type State int

const (
	// StateIdle means no results are current: the session is new or
	// an edit invalidated the last run.
	StateIdle State = iota
	// StateValidating means a pipeline run is executing.
	StateValidating
	// StateReady means the last run's issues are available.
	StateReady
	// StateApplying means committed fixes are being applied before
	// the follow-up validation run.
	StateApplying
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateValidating: "validating",
	StateReady:      "ready",
	StateApplying:   "applying",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
