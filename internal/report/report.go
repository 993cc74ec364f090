package report

import (
	"fmt"

	"github.com/Agrid-Dev/retrofitcalc/internal/envelope"
)

const (
	// SquareMetresToSquareFeet is only used for the per-square-foot display figure.
	SquareMetresToSquareFeet = 10.764
	SecondsPerMonth          = 86400 * 30
)

// SurfaceLine itemizes one envelope element.
type SurfaceLine struct {
	Name           string  `json:"name,omitempty" yaml:"name,omitempty"`
	Kind           string  `json:"kind" yaml:"kind"`
	AreaM2         float64 `json:"area_m2" yaml:"area_m2"`
	Resistance     float64 `json:"resistance" yaml:"resistance"`
	HeatFlowW      float64 `json:"heat_flow_w" yaml:"heat_flow_w"`
	EmbodiedCarbon float64 `json:"embodied_carbon_kg" yaml:"embodied_carbon_kg"`
	Cost           float64 `json:"cost" yaml:"cost"`
}

// ApplianceLine itemizes one appliance.
type ApplianceLine struct {
	ID             string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name           string  `json:"name,omitempty" yaml:"name,omitempty"`
	Behaviour      string  `json:"behaviour" yaml:"behaviour"`
	Enabled        bool    `json:"enabled" yaml:"enabled"`
	OutputPowerW   float64 `json:"output_power_w" yaml:"output_power_w"`
	GasPowerW      float64 `json:"gas_power_w" yaml:"gas_power_w"`
	EmbodiedCarbon float64 `json:"embodied_carbon_kg" yaml:"embodied_carbon_kg"`
	Cost           float64 `json:"cost" yaml:"cost"`
}

// Summary is the complete set of figures derived from one house.
type Summary struct {
	ScenarioID          string  `json:"scenario_id,omitempty" yaml:"scenario_id,omitempty"`
	Name                string  `json:"name,omitempty" yaml:"name,omitempty"`
	InternalTemperature float64 `json:"internal_temperature" yaml:"internal_temperature"`
	ExternalTemperature float64 `json:"external_temperature" yaml:"external_temperature"`

	VolumeM3         float64 `json:"volume_m3" yaml:"volume_m3"`
	GrossFloorAreaM2 float64 `json:"gross_floor_area_m2" yaml:"gross_floor_area_m2"`

	Cost                     float64 `json:"cost" yaml:"cost"`
	CostPerSquareFoot        float64 `json:"cost_per_square_foot" yaml:"cost_per_square_foot"`
	EmbodiedCarbonKg         float64 `json:"embodied_carbon_kg" yaml:"embodied_carbon_kg"`
	EmbodiedCarbonPerAreaKg  float64 `json:"embodied_carbon_per_m2_kg" yaml:"embodied_carbon_per_m2_kg"`
	OperationalCarbonKgPerS  float64 `json:"operational_carbon_kg_per_s" yaml:"operational_carbon_kg_per_s"`
	OperationalCarbonKgMonth float64 `json:"operational_carbon_kg_per_month" yaml:"operational_carbon_kg_per_month"`

	HeatingPowerW      float64 `json:"heating_power_w" yaml:"heating_power_w"`
	CoolingPowerW      float64 `json:"cooling_power_w" yaml:"cooling_power_w"`
	NetAppliancePowerW float64 `json:"net_appliance_power_w" yaml:"net_appliance_power_w"`
	EnvelopeHeatLossW  float64 `json:"envelope_heat_loss_w" yaml:"envelope_heat_loss_w"`

	Surfaces   []SurfaceLine   `json:"surfaces" yaml:"surfaces"`
	Appliances []ApplianceLine `json:"appliances" yaml:"appliances"`
}

// Compute derives a Summary from the current state of h. Names and ids are left
// for the caller to fill in.
func Compute(h *envelope.House) (Summary, error) {
	q, err := h.Q()
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		InternalTemperature: h.InternalTemp,
		ExternalTemperature: h.ExternalTemp,
		VolumeM3:            h.Volume(),
		GrossFloorAreaM2:    h.GrossFloorArea(),
		Cost:                h.Cost(),
		EmbodiedCarbonKg:    h.EmbodiedCarbon(),
		HeatingPowerW:       h.TotalAppliancePower(envelope.BehaviourHeats),
		CoolingPowerW:       h.TotalAppliancePower(envelope.BehaviourCools),
		NetAppliancePowerW:  h.NetAppliancePower(),
		EnvelopeHeatLossW:   q,
	}
	s.OperationalCarbonKgPerS = h.OperationalCarbon()
	s.OperationalCarbonKgMonth = s.OperationalCarbonKgPerS * SecondsPerMonth

	if s.GrossFloorAreaM2 > 0 {
		s.CostPerSquareFoot = s.Cost / (s.GrossFloorAreaM2 * SquareMetresToSquareFeet)
		s.EmbodiedCarbonPerAreaKg = s.EmbodiedCarbonKg / s.GrossFloorAreaM2
	}

	for i, surf := range h.Surfaces() {
		flow, err := surf.HeatFlow(h.InternalTemp, h.ExternalTemp)
		if err != nil {
			return Summary{}, fmt.Errorf("surface %d: %w", i, err)
		}
		s.Surfaces = append(s.Surfaces, SurfaceLine{
			Kind:           surf.Kind().String(),
			AreaM2:         surf.Area(),
			Resistance:     surf.TotalThermalResistance(),
			HeatFlowW:      flow,
			EmbodiedCarbon: surf.TotalEmbodiedCarbon(),
			Cost:           surf.TotalCost(),
		})
	}

	for _, a := range h.Appliances() {
		p := a.Params()
		s.Appliances = append(s.Appliances, ApplianceLine{
			Behaviour:      p.Behaviour.String(),
			Enabled:        a.Enabled(),
			OutputPowerW:   a.OutputPower(),
			GasPowerW:      a.GasPower(),
			EmbodiedCarbon: p.EmbodiedCarbon,
			Cost:           p.Cost,
		})
	}

	return s, nil
}
