package envelope

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

const tolerance = 1e-9

func assertClose(t *testing.T, got, want float64) {
	t.Helper()
	assert.Assert(t, math.Abs(got-want) <= tolerance*math.Max(1, math.Abs(want)),
		"got %v, want %v", got, want)
}

func cellulose(rsi float64) []Layer {
	return []Layer{
		{Thickness: 1, ResistancePerInch: rsi},
		{Thickness: 8, ResistancePerInch: 0.598, Density: 80, EmbodiedCarbonFactor: 0.144, CostFactor: 1.45},
	}
}

func TestWallSingleLayerHeatFlow(t *testing.T) {
	w, err := NewWall(30.8, Layer{Thickness: 1, ResistancePerInch: 0.82})
	assert.NilError(t, err)

	q, err := w.HeatFlow(22, -6.7)
	assert.NilError(t, err)
	assertClose(t, q, (22.0+6.7)*30.8/(0.82*1))
	assert.Assert(t, math.Abs(q-1077.9) < 0.5, "got %v", q)
}

func TestWallHeatFlowDirection(t *testing.T) {
	w, err := NewWall(10, Layer{Thickness: 2, ResistancePerInch: 1})
	assert.NilError(t, err)

	loss, err := w.HeatFlow(20, 0)
	assert.NilError(t, err)
	assert.Assert(t, loss > 0)

	gain, err := w.HeatFlow(20, 30)
	assert.NilError(t, err)
	assert.Assert(t, gain < 0)

	none, err := w.HeatFlow(20, 20)
	assert.NilError(t, err)
	assert.Equal(t, none, 0.0)
}

func TestWallResistanceIsOrderIndependent(t *testing.T) {
	layers := []Layer{
		{Thickness: 1, ResistancePerInch: 0.82},
		{Thickness: 8, ResistancePerInch: 0.598, Density: 80, EmbodiedCarbonFactor: 0.144, CostFactor: 1.45},
		{Thickness: 0.5, ResistancePerInch: 0.1, Density: 600, EmbodiedCarbonFactor: 0.3, CostFactor: 0.2},
	}
	reversed := []Layer{layers[2], layers[1], layers[0]}

	a, err := NewWall(42, layers...)
	assert.NilError(t, err)
	b, err := NewWall(42, reversed...)
	assert.NilError(t, err)

	assertClose(t, a.TotalThermalResistance(), b.TotalThermalResistance())
	assertClose(t, a.TotalEmbodiedCarbon(), b.TotalEmbodiedCarbon())
	assertClose(t, a.TotalCost(), b.TotalCost())
}

func TestWallResistanceIsAreaIndependent(t *testing.T) {
	small, err := NewWall(1, cellulose(0.82)...)
	assert.NilError(t, err)
	large, err := NewWall(100, cellulose(0.82)...)
	assert.NilError(t, err)

	assertClose(t, small.TotalThermalResistance(), 0.82+8*0.598)
	assertClose(t, large.TotalThermalResistance(), small.TotalThermalResistance())
}

func TestWallZeroDensityLayerContributesNothing(t *testing.T) {
	w, err := NewWall(50, Layer{
		Thickness:            10,
		ResistancePerInch:    1,
		Density:              0,
		EmbodiedCarbonFactor: 1000,
		CostFactor:           1000,
	})
	assert.NilError(t, err)

	assert.Equal(t, w.TotalEmbodiedCarbon(), 0.0)
	assert.Equal(t, w.TotalCost(), 0.0)
	assert.Equal(t, w.Mass(), 0.0)
}

func TestWallMassBasedTotals(t *testing.T) {
	w, err := NewWall(30.8, cellulose(0.82)...)
	assert.NilError(t, err)

	mass := 30.8 * 8 * InchesToMeters * 80
	assertClose(t, w.Mass(), mass)
	assertClose(t, w.TotalEmbodiedCarbon(), mass*0.144)
	assertClose(t, w.TotalCost(), mass*1.45)
}

func TestNewWallFromColumns(t *testing.T) {
	w, err := NewWallFromColumns(75,
		[]float64{1, 8},
		[]float64{0.86, 0.598},
		[]float64{0, 80},
		[]float64{0, 0.144},
		[]float64{0, 1.45},
	)
	assert.NilError(t, err)

	layers := w.Layers()
	assert.Equal(t, len(layers), 2)
	assert.Equal(t, layers[0], Layer{Thickness: 1, ResistancePerInch: 0.86})
	assert.Equal(t, layers[1].Density, 80.0)
	assertClose(t, w.TotalThermalResistance(), 0.86+8*0.598)
}

func TestNewWallFromColumnsMismatchedLengths(t *testing.T) {
	tests := []struct {
		name                            string
		thickness, rsi, density, ec, co []float64
	}{
		{"short rsi", []float64{1, 8}, []float64{1}, []float64{0, 80}, []float64{0, 1}, []float64{0, 1}},
		{"long density", []float64{1}, []float64{1}, []float64{0, 80}, []float64{0}, []float64{0}},
		{"missing cost", []float64{1}, []float64{1}, []float64{0}, []float64{0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWallFromColumns(10, tt.thickness, tt.rsi, tt.density, tt.ec, tt.co)
			assert.ErrorIs(t, err, ErrInconsistentLayerArrays)
		})
	}
}

func TestNewWallFromColumnsOwnsItsData(t *testing.T) {
	thickness := []float64{1}
	rsi := []float64{2}
	w, err := NewWallFromColumns(10, thickness, rsi, []float64{0}, []float64{0}, []float64{0})
	assert.NilError(t, err)

	rsi[0] = 100
	thickness[0] = 100
	assertClose(t, w.TotalThermalResistance(), 2)

	layers := w.Layers()
	layers[0].ResistancePerInch = 50
	assertClose(t, w.TotalThermalResistance(), 2)
}

func TestNewWallValidation(t *testing.T) {
	_, err := NewWall(0, Layer{Thickness: 1, ResistancePerInch: 1})
	assert.ErrorIs(t, err, ErrInvalidArea)

	_, err = NewWall(-3, Layer{Thickness: 1, ResistancePerInch: 1})
	assert.ErrorIs(t, err, ErrInvalidArea)

	_, err = NewWall(10, Layer{Thickness: -1, ResistancePerInch: 1})
	assert.ErrorIs(t, err, ErrInvalidLayer)

	_, err = NewWall(10, Layer{Thickness: 1, ResistancePerInch: 1, Density: -80})
	assert.ErrorIs(t, err, ErrInvalidLayer)
}

func TestNewWallRejectsNonFiniteValues(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name  string
		area  float64
		layer Layer
		want  error
	}{
		{"NaN area", nan, Layer{Thickness: 1, ResistancePerInch: 1}, ErrInvalidArea},
		{"infinite area", inf, Layer{Thickness: 1, ResistancePerInch: 1}, ErrInvalidArea},
		{"NaN thickness", 10, Layer{Thickness: nan, ResistancePerInch: 1}, ErrInvalidLayer},
		{"infinite thickness", 10, Layer{Thickness: inf, ResistancePerInch: 1}, ErrInvalidLayer},
		{"NaN resistance", 10, Layer{Thickness: 1, ResistancePerInch: nan}, ErrInvalidLayer},
		{"negative infinite resistance", 10, Layer{Thickness: 1, ResistancePerInch: math.Inf(-1)}, ErrInvalidLayer},
		{"NaN density", 10, Layer{Thickness: 1, ResistancePerInch: 1, Density: nan}, ErrInvalidLayer},
		{"NaN embodied carbon factor", 10, Layer{Thickness: 1, ResistancePerInch: 1, EmbodiedCarbonFactor: nan}, ErrInvalidLayer},
		{"infinite cost factor", 10, Layer{Thickness: 1, ResistancePerInch: 1, CostFactor: inf}, ErrInvalidLayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWall(tt.area, tt.layer)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWallDegenerateAssembly(t *testing.T) {
	empty, err := NewWall(10)
	assert.NilError(t, err)
	_, err = empty.HeatFlow(22, -6.7)
	assert.ErrorIs(t, err, ErrDegenerateAssembly)

	zero, err := NewWall(10, Layer{Thickness: 4, ResistancePerInch: 0})
	assert.NilError(t, err)
	_, err = zero.HeatFlow(22, -6.7)
	assert.ErrorIs(t, err, ErrDegenerateAssembly)
}

func TestWindowHeatFlow(t *testing.T) {
	w, err := NewWindow(17.64, 0.3875, 0, 0)
	assert.NilError(t, err)

	q, err := w.HeatFlow(22, -6.7)
	assert.NilError(t, err)
	assertClose(t, q, (22.0+6.7)*17.64/0.3875)
	assert.Assert(t, math.Abs(q-1306.5) < 0.5, "got %v", q)
}

func TestWindowReturnsStoredTotals(t *testing.T) {
	w, err := NewWindow(3.51, 0.98, 42, 1200)
	assert.NilError(t, err)

	assert.Equal(t, w.Kind(), SurfaceWindow)
	assert.Equal(t, w.Area(), 3.51)
	assert.Equal(t, w.TotalThermalResistance(), 0.98)
	assert.Equal(t, w.TotalEmbodiedCarbon(), 42.0)
	assert.Equal(t, w.TotalCost(), 1200.0)
}

func TestWindowValidation(t *testing.T) {
	_, err := NewWindow(0, 1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidArea)

	_, err = NewWindow(1, -1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidSurface)

	_, err = NewWindow(1, 1, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidSurface)

	_, err = NewWindow(1, 1, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidSurface)
}

func TestWindowRejectsNonFiniteValues(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name                    string
		area, rsi, carbon, cost float64
		want                    error
	}{
		{"NaN area", nan, 1, 0, 0, ErrInvalidArea},
		{"infinite area", inf, 1, 0, 0, ErrInvalidArea},
		{"NaN resistance", 1, nan, 0, 0, ErrInvalidSurface},
		{"infinite resistance", 1, inf, 0, 0, ErrInvalidSurface},
		{"NaN embodied carbon", 1, 1, nan, 0, ErrInvalidSurface},
		{"infinite cost", 1, 1, 0, inf, ErrInvalidSurface},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindow(tt.area, tt.rsi, tt.carbon, tt.cost)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHeatFlowNeverReturnsNonFinite(t *testing.T) {
	w, err := NewWindow(2, 0.5, 0, 0)
	assert.NilError(t, err)

	for _, temps := range [][2]float64{{math.NaN(), 0}, {22, math.Inf(-1)}} {
		q, err := w.HeatFlow(temps[0], temps[1])
		assert.ErrorIs(t, err, ErrDegenerateAssembly)
		assert.Equal(t, q, 0.0)
	}
}

func TestWindowDegenerateAssembly(t *testing.T) {
	w, err := NewWindow(2, 0, 0, 0)
	assert.NilError(t, err)

	_, err = w.HeatFlow(22, -6.7)
	assert.ErrorIs(t, err, ErrDegenerateAssembly)
}
