package scenario

import (
	"fmt"

	"github.com/Agrid-Dev/retrofitcalc/internal/envelope"
)

// Sample data: a 1950s house as described by its EnerGuide homeowner
// information sheet, before and after a proposed retrofit.

const (
	sampleInternalTemp = 22.0
	sampleWinterTemp   = -6.7
	sampleSummerTemp   = 26.6

	// Loose cellulose fibre blown into every opaque assembly.
	celluloseThickness = 8.0   // in
	celluloseRSI       = 0.598 // per inch
	celluloseDensity   = 80.0  // kg/m³
	celluloseEC        = 0.144 // kgCO2e/kg
	celluloseCost      = 1.45  // $/kg

	// Window AC efficiency: 1 / CEER converted to W/W.
	windowACEfficiency = 1 / (15.5 * 0.29307107)
	windowACOutput     = 1758.42642 // W
)

var sampleStoreys = []envelope.Storey{
	{FloorArea: 91.9, HeightMultiplier: 2},   // basement
	{FloorArea: 101.5, HeightMultiplier: 2},  // main floor
	{FloorArea: 91.9, HeightMultiplier: 0.5}, // attic, about half height under the roof
}

type sampleAssembly struct {
	name string
	area float64
	rsi  float64 // existing RSI of the whole assembly, as one layer of one inch
}

var sampleAssemblies = []sampleAssembly{
	{"Brick and block wall", 30.8, 0.82},
	{"Concrete block wall", 75, 0.86},
	{"Main roof", 101.5, 4.85},
	{"Foundation wall", 44.5, 1.75},
	{"Foundation header", 4.4, 0.8},
	{"Foundation slab edge", 5.5, 2.79},
}

type sampleOpening struct {
	name string
	area float64
	rsi  float64
}

var sampleDoors = []sampleOpening{
	{"Solid wood door", 3.51, 0.39},
	{"Steel polystyrene door", 3.51, 0.98},
}

// Samples returns the four built-in scenarios.
func Samples() ([]*Scenario, error) {
	builders := []func() (*Scenario, error){
		func() (*Scenario, error) { return Baseline(SeasonWinter) },
		func() (*Scenario, error) { return Baseline(SeasonSummer) },
		func() (*Scenario, error) { return Retrofit(SeasonWinter) },
		func() (*Scenario, error) { return Retrofit(SeasonSummer) },
	}
	out := make([]*Scenario, 0, len(builders))
	for _, b := range builders {
		s, err := b()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Baseline is the house with no retrofits. Existing layers carry no density so
// they add neither cost nor embodied carbon.
func Baseline(season Season) (*Scenario, error) {
	s, err := newSampleScenario("baseline", "Sample 1950s house, no retrofits", season)
	if err != nil {
		return nil, err
	}

	for _, a := range sampleAssemblies {
		w, err := envelope.NewWall(a.area, envelope.Layer{Thickness: 1, ResistancePerInch: a.rsi})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.name, err)
		}
		s.AddSurface(a.name, w)
	}
	// No per-window data: average RSI of all eight, mostly double-paned.
	if err := addOpenings(s, append([]sampleOpening{{"Windows", 17.64, 0.3875}}, sampleDoors...)); err != nil {
		return nil, err
	}

	if err := addAppliance(s, "furnace", "Condensing natural-gas furnace", envelope.ApplianceParams{
		Behaviour:         envelope.BehaviourHeats,
		Efficiency:        0.95,
		EnergyConsumption: 18000 / 0.95,
		FractionGas:       1,
	}); err != nil {
		return nil, err
	}
	if err := addAppliance(s, "central-ac", "Central air conditioner", envelope.ApplianceParams{
		Behaviour:         envelope.BehaviourCools,
		Efficiency:        1,
		EnergyConsumption: 32000.0 / 10,
	}); err != nil {
		return nil, err
	}

	return s, s.ApplySeason(season)
}

// Retrofit adds cellulose to every opaque assembly, replaces the windows with
// triple-pane low-e units, and swaps the furnace and central AC for an electric
// heat pump and four window AC units.
func Retrofit(season Season) (*Scenario, error) {
	return RetrofitWithCellulose(season, celluloseThickness)
}

// RetrofitWithCellulose is Retrofit with thickness inches of cellulose in
// place of the proposed amount.
func RetrofitWithCellulose(season Season, thickness float64) (*Scenario, error) {
	if thickness < 0 {
		return nil, fmt.Errorf("%w: negative cellulose thickness %v", envelope.ErrInvalidLayer, thickness)
	}
	s, err := newSampleScenario("retrofit", "Same 1950s house, with proposed retrofits", season)
	if err != nil {
		return nil, err
	}

	for _, a := range sampleAssemblies {
		w, err := envelope.NewWallFromColumns(a.area,
			[]float64{1, thickness},
			[]float64{a.rsi, celluloseRSI},
			[]float64{0, celluloseDensity},
			[]float64{0, celluloseEC},
			[]float64{0, celluloseCost},
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.name, err)
		}
		s.AddSurface(a.name+" + cellulose", w)
	}
	if err := addOpenings(s, append([]sampleOpening{{"Triple-pane low-e windows", 17.64, 1.149}}, sampleDoors...)); err != nil {
		return nil, err
	}

	// Same output as before; 19% efficient in winter.
	if err := addAppliance(s, "heat-pump", "Air-source heat pump", envelope.ApplianceParams{
		Behaviour:         envelope.BehaviourHeats,
		Efficiency:        0.19,
		EnergyConsumption: 18000 / 0.19,
		Cost:              9000,
	}); err != nil {
		return nil, err
	}
	for i := 1; i <= 4; i++ {
		if err := addAppliance(s, fmt.Sprintf("window-ac-%d", i), fmt.Sprintf("Window AC, room %d", i), envelope.ApplianceParams{
			Behaviour:         envelope.BehaviourCools,
			Efficiency:        windowACEfficiency,
			EnergyConsumption: windowACOutput / windowACEfficiency,
			Cost:              369,
		}); err != nil {
			return nil, err
		}
	}

	return s, s.ApplySeason(season)
}

func newSampleScenario(prefix, name string, season Season) (*Scenario, error) {
	var external float64
	switch season {
	case SeasonWinter:
		external = sampleWinterTemp
	case SeasonSummer:
		external = sampleSummerTemp
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeason, int(season))
	}
	h := envelope.NewHouse(sampleInternalTemp, external)
	h.Storeys = append([]envelope.Storey(nil), sampleStoreys...)
	return New(prefix+"-"+season.String(), name+", "+season.String(), h), nil
}

func addOpenings(s *Scenario, openings []sampleOpening) error {
	for _, o := range openings {
		w, err := envelope.NewWindow(o.area, o.rsi, 0, 0)
		if err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
		s.AddSurface(o.name, w)
	}
	return nil
}

func addAppliance(s *Scenario, id, name string, p envelope.ApplianceParams) error {
	a, err := envelope.NewAppliance(p, false)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	_, err = s.AddAppliance(id, name, a)
	return err
}
