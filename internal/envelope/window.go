package envelope

import "fmt"

// Window is a surface described by a single lumped resistance and aggregate
// carbon and cost figures. Doors are modelled as windows.
type Window struct {
	area           float64
	rsi            float64
	embodiedCarbon float64
	cost           float64
}

var _ Surface = (*Window)(nil)

func NewWindow(area, rsi, embodiedCarbon, cost float64) (*Window, error) {
	if err := validateArea(area); err != nil {
		return nil, err
	}
	switch {
	case !nonNegative(rsi):
		return nil, fmt.Errorf("%w: invalid resistance %v", ErrInvalidSurface, rsi)
	case !nonNegative(embodiedCarbon):
		return nil, fmt.Errorf("%w: invalid embodied carbon %v", ErrInvalidSurface, embodiedCarbon)
	case !nonNegative(cost):
		return nil, fmt.Errorf("%w: invalid cost %v", ErrInvalidSurface, cost)
	}
	return &Window{area: area, rsi: rsi, embodiedCarbon: embodiedCarbon, cost: cost}, nil
}

func (w *Window) Kind() SurfaceKind { return SurfaceWindow }

func (w *Window) Area() float64 { return w.area }

func (w *Window) TotalThermalResistance() float64 { return w.rsi }

func (w *Window) TotalEmbodiedCarbon() float64 { return w.embodiedCarbon }

func (w *Window) TotalCost() float64 { return w.cost }

func (w *Window) HeatFlow(tIn, tOut float64) (float64, error) {
	return heatFlow(w.area, w.rsi, tIn, tOut)
}
