package envelope

const (
	// NaturalGasEnergyDensity is the energy released per kilogram of natural gas, in J/kg.
	NaturalGasEnergyDensity = 53.6e6

	// InchesToMeters converts layer thicknesses (given in inches to match RSI-per-inch
	// figures) into metres for mass calculations.
	InchesToMeters = 0.0254

	// AirVolumetricHeatCapacity is in J/(m³·K). Not used by any steady-state computation.
	AirVolumetricHeatCapacity = 1210
)
