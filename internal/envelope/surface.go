package envelope

import (
	"fmt"
	"math"
)

// Surface is an envelope element: a wall, roof, floor, window or door.
type Surface interface {
	Kind() SurfaceKind
	Area() float64
	TotalThermalResistance() float64
	TotalEmbodiedCarbon() float64
	TotalCost() float64
	// HeatFlow returns the steady-state power in W; positive flows from inside to outside.
	HeatFlow(tIn, tOut float64) (float64, error)
}

func heatFlow(area, resistance, tIn, tOut float64) (float64, error) {
	if !(resistance > 0) || math.IsInf(resistance, 1) {
		return 0, fmt.Errorf("%w (got %v)", ErrDegenerateAssembly, resistance)
	}
	q := (tIn - tOut) * area / resistance
	if !finite(q) {
		return 0, fmt.Errorf("%w: non-finite heat flow for temperatures %v, %v", ErrDegenerateAssembly, tIn, tOut)
	}
	return q, nil
}

func validateArea(area float64) error {
	if !(area > 0) || math.IsInf(area, 1) {
		return fmt.Errorf("%w (got %v)", ErrInvalidArea, area)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// nonNegative is false for NaN and +Inf as well as for negative values.
func nonNegative(x float64) bool {
	return x >= 0 && finite(x)
}
