package envelope

import "fmt"

// Layer is one material layer of a wall.
type Layer struct {
	Thickness            float64 // inches
	ResistancePerInch    float64 // RSI per inch
	Density              float64 // kg/m³, 0 for existing layers whose mass is not tracked
	EmbodiedCarbonFactor float64 // kgCO2e per kg
	CostFactor           float64 // currency per kg
}

func (l *Layer) Validate() error {
	switch {
	case !nonNegative(l.Thickness):
		return fmt.Errorf("%w: invalid thickness %v", ErrInvalidLayer, l.Thickness)
	case !nonNegative(l.ResistancePerInch):
		return fmt.Errorf("%w: invalid resistance per inch %v", ErrInvalidLayer, l.ResistancePerInch)
	case !nonNegative(l.Density):
		return fmt.Errorf("%w: invalid density %v", ErrInvalidLayer, l.Density)
	case !nonNegative(l.EmbodiedCarbonFactor):
		return fmt.Errorf("%w: invalid embodied carbon factor %v", ErrInvalidLayer, l.EmbodiedCarbonFactor)
	case !nonNegative(l.CostFactor):
		return fmt.Errorf("%w: invalid cost factor %v", ErrInvalidLayer, l.CostFactor)
	}
	return nil
}

// Resistance is the layer's contribution to the assembly's RSI.
func (l Layer) Resistance() float64 {
	return l.ResistancePerInch * l.Thickness
}

// Mass of the layer over the given area, in kg.
func (l Layer) Mass(area float64) float64 {
	return area * l.Thickness * InchesToMeters * l.Density
}
