package envelope

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Wall is a layered surface (wall, roof or floor). Layers are kept as parallel
// columns so totals reduce to dot products.
type Wall struct {
	area      float64
	thickness []float64
	rsi       []float64
	density   []float64
	ec        []float64
	cost      []float64
}

var _ Surface = (*Wall)(nil)

// NewWall copies the given layers into a new wall.
func NewWall(area float64, layers ...Layer) (*Wall, error) {
	if err := validateArea(area); err != nil {
		return nil, err
	}
	w := &Wall{
		area:      area,
		thickness: make([]float64, 0, len(layers)),
		rsi:       make([]float64, 0, len(layers)),
		density:   make([]float64, 0, len(layers)),
		ec:        make([]float64, 0, len(layers)),
		cost:      make([]float64, 0, len(layers)),
	}
	for i := range layers {
		if err := layers[i].Validate(); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		w.thickness = append(w.thickness, layers[i].Thickness)
		w.rsi = append(w.rsi, layers[i].ResistancePerInch)
		w.density = append(w.density, layers[i].Density)
		w.ec = append(w.ec, layers[i].EmbodiedCarbonFactor)
		w.cost = append(w.cost, layers[i].CostFactor)
	}
	return w, nil
}

// NewWallFromColumns builds a wall from per-layer arrays, which must all have
// the same length.
func NewWallFromColumns(area float64, thickness, rsi, density, ec, cost []float64) (*Wall, error) {
	n := len(thickness)
	if len(rsi) != n || len(density) != n || len(ec) != n || len(cost) != n {
		return nil, fmt.Errorf("%w: thickness=%d rsi=%d density=%d ec=%d cost=%d",
			ErrInconsistentLayerArrays, len(thickness), len(rsi), len(density), len(ec), len(cost))
	}
	layers := make([]Layer, n)
	for i := range layers {
		layers[i] = Layer{
			Thickness:            thickness[i],
			ResistancePerInch:    rsi[i],
			Density:              density[i],
			EmbodiedCarbonFactor: ec[i],
			CostFactor:           cost[i],
		}
	}
	return NewWall(area, layers...)
}

func (w *Wall) Kind() SurfaceKind { return SurfaceWall }

func (w *Wall) Area() float64 { return w.area }

// Layers returns a copy of the wall's layers in insertion order.
func (w *Wall) Layers() []Layer {
	out := make([]Layer, len(w.thickness))
	for i := range out {
		out[i] = Layer{
			Thickness:            w.thickness[i],
			ResistancePerInch:    w.rsi[i],
			Density:              w.density[i],
			EmbodiedCarbonFactor: w.ec[i],
			CostFactor:           w.cost[i],
		}
	}
	return out
}

// TotalThermalResistance does not depend on area.
func (w *Wall) TotalThermalResistance() float64 {
	return floats.Dot(w.rsi, w.thickness)
}

func (w *Wall) masses() []float64 {
	m := make([]float64, len(w.thickness))
	for i := range m {
		m[i] = w.area * w.thickness[i] * InchesToMeters * w.density[i]
	}
	return m
}

// Mass is the tracked mass in kg. Zero-density layers do not count.
func (w *Wall) Mass() float64 {
	return floats.Sum(w.masses())
}

func (w *Wall) TotalEmbodiedCarbon() float64 {
	return floats.Dot(w.masses(), w.ec)
}

func (w *Wall) TotalCost() float64 {
	return floats.Dot(w.masses(), w.cost)
}

func (w *Wall) HeatFlow(tIn, tOut float64) (float64, error) {
	return heatFlow(w.area, w.TotalThermalResistance(), tIn, tOut)
}
