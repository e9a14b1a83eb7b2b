package importer

// State is the phase an import is in.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateNormalizing
	StateLayingOut
	StateSpawning
	StateReporting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateNormalizing:
		return "normalizing"
	case StateLayingOut:
		return "laying out"
	case StateSpawning:
		return "spawning"
	case StateReporting:
		return "reporting"
	default:
		return "unknown"
	}
}
