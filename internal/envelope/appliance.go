package envelope

import "fmt"

type ApplianceParams struct {
	Behaviour         Behaviour
	Efficiency        float64 // useful output / input; may exceed 1 for heat pumps and AC
	EnergyConsumption float64 // W drawn
	FractionGas       float64 // share of EnergyConsumption from combustion fuel, in [0,1]
	EmbodiedCarbon    float64 // kgCO2e, one-time
	Cost              float64 // one-time
}

func (p *ApplianceParams) Validate() error {
	switch {
	case !p.Behaviour.Valid():
		return fmt.Errorf("%w: behaviour %d", ErrInvalidAppliance, int(p.Behaviour))
	case !(p.Efficiency > 0) || !finite(p.Efficiency):
		return fmt.Errorf("%w: efficiency must be positive and finite, got %v", ErrInvalidAppliance, p.Efficiency)
	case !nonNegative(p.EnergyConsumption):
		return fmt.Errorf("%w: invalid energy consumption %v", ErrInvalidAppliance, p.EnergyConsumption)
	case !(p.FractionGas >= 0 && p.FractionGas <= 1):
		return fmt.Errorf("%w: fraction gas %v outside [0,1]", ErrInvalidAppliance, p.FractionGas)
	case !nonNegative(p.EmbodiedCarbon):
		return fmt.Errorf("%w: invalid embodied carbon %v", ErrInvalidAppliance, p.EmbodiedCarbon)
	case !nonNegative(p.Cost):
		return fmt.Errorf("%w: invalid cost %v", ErrInvalidAppliance, p.Cost)
	}
	return nil
}

// Appliance is immutable once built, apart from its enabled flag. Disabled
// appliances still count towards cost and embodied carbon.
type Appliance struct {
	params  ApplianceParams
	enabled bool
}

func NewAppliance(params ApplianceParams, enabled bool) (*Appliance, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Appliance{params: params, enabled: enabled}, nil
}

func (a *Appliance) Params() ApplianceParams { return a.params }

func (a *Appliance) Behaviour() Behaviour { return a.params.Behaviour }

func (a *Appliance) Enabled() bool { return a.enabled }

func (a *Appliance) SetEnabled(on bool) { a.enabled = on }

// OutputPower is the signed useful thermal output in W, regardless of enabled state.
func (a *Appliance) OutputPower() float64 {
	return a.params.EnergyConsumption * a.params.Efficiency * a.params.Behaviour.Sign()
}

// GasPower is the part of the input draw supplied by combustion fuel, in W.
func (a *Appliance) GasPower() float64 {
	return a.params.EnergyConsumption * a.params.FractionGas
}
