package scenario

import "fmt"

// Season selects which conditioning appliances run.
type Season int

const (
	SeasonUnknown Season = iota
	SeasonWinter
	SeasonSummer
)

func (s Season) Valid() bool {
	return s == SeasonWinter || s == SeasonSummer
}

func (s Season) String() string {
	switch s {
	case SeasonWinter:
		return "winter"
	case SeasonSummer:
		return "summer"
	default:
		return "unknown"
	}
}

func ParseSeason(s string) (Season, error) {
	switch s {
	case "winter":
		return SeasonWinter, nil
	case "summer":
		return SeasonSummer, nil
	default:
		return SeasonUnknown, fmt.Errorf("%w: %q", ErrInvalidSeason, s)
	}
}
