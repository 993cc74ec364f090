package scenario

import "errors"

var (
	ErrUnknownScenario    = errors.New("unknown scenario")
	ErrUnknownAppliance   = errors.New("unknown appliance")
	ErrDuplicateScenario  = errors.New("duplicate scenario id")
	ErrDuplicateAppliance = errors.New("duplicate appliance id")
	ErrInvalidSeason      = errors.New("invalid season")
)
