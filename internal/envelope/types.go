package envelope

import "fmt"

// Behaviour is the sign with which an appliance's output enters the heating/cooling balance.
type Behaviour int

const (
	BehaviourCools   Behaviour = -1
	BehaviourNeutral Behaviour = 0
	BehaviourHeats   Behaviour = 1
)

func (b Behaviour) Valid() bool {
	return b == BehaviourCools || b == BehaviourNeutral || b == BehaviourHeats
}

func (b Behaviour) String() string {
	switch b {
	case BehaviourHeats:
		return "heats"
	case BehaviourCools:
		return "cools"
	case BehaviourNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Sign returns +1, -1 or 0. Invalid values count as neutral.
func (b Behaviour) Sign() float64 {
	if !b.Valid() {
		return 0
	}
	return float64(b)
}

// ParseBehaviour accepts the canonical names plus the appliance-style aliases
// "heater", "air_conditioner" and "other".
func ParseBehaviour(s string) (Behaviour, error) {
	switch s {
	case "heats", "heater":
		return BehaviourHeats, nil
	case "cools", "air_conditioner":
		return BehaviourCools, nil
	case "neutral", "other":
		return BehaviourNeutral, nil
	default:
		return BehaviourNeutral, fmt.Errorf("%w: %q", ErrInvalidBehaviour, s)
	}
}

// SurfaceKind tags the concrete Surface variant.
type SurfaceKind int

const (
	SurfaceUnknown SurfaceKind = iota
	SurfaceWall
	SurfaceWindow
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceWall:
		return "wall"
	case SurfaceWindow:
		return "window"
	default:
		return "unknown"
	}
}
