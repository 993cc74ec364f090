package envelope

import "errors"

var (
	ErrDegenerateAssembly      = errors.New("degenerate assembly: total thermal resistance must be positive")
	ErrInconsistentLayerArrays = errors.New("inconsistent layer arrays")
	ErrInvalidLayer            = errors.New("invalid layer")
	ErrInvalidArea             = errors.New("surface area must be positive")
	ErrInvalidSurface          = errors.New("invalid surface")
	ErrInvalidAppliance        = errors.New("invalid appliance")
	ErrInvalidBehaviour        = errors.New("invalid behaviour")
)
