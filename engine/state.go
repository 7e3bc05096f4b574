package engine

// State is the driver lifecycle position
type State int32

const (
	StateIdle    State = iota // constructed, Run not called
	StateRunning              // terminal acquired, loop active
	StateStopped              // terminal restored, driver cannot be reused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
