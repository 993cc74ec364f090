package envelope

import "fmt"

// Storey is one level of the house. HeightMultiplier scales FloorArea into a
// volume contribution (0.5 for a half-height attic, for instance).
type Storey struct {
	FloorArea        float64
	HeightMultiplier float64
}

// House aggregates surfaces and appliances. Every query is recomputed from the
// current state; nothing is cached. A House is not safe for concurrent use.
type House struct {
	Storeys      []Storey
	InternalTemp float64 // °C
	ExternalTemp float64 // °C

	surfaces   []Surface
	appliances []*Appliance
}

func NewHouse(internalTemp, externalTemp float64) *House {
	return &House{InternalTemp: internalTemp, ExternalTemp: externalTemp}
}

func (h *House) AddStorey(floorArea, heightMultiplier float64) {
	h.Storeys = append(h.Storeys, Storey{FloorArea: floorArea, HeightMultiplier: heightMultiplier})
}

func (h *House) AddSurface(surfaces ...Surface) {
	h.surfaces = append(h.surfaces, surfaces...)
}

func (h *House) AddAppliance(appliances ...*Appliance) {
	h.appliances = append(h.appliances, appliances...)
}

func (h *House) SetTemperatures(internal, external float64) {
	h.InternalTemp = internal
	h.ExternalTemp = external
}

func (h *House) Surfaces() []Surface {
	return append([]Surface(nil), h.surfaces...)
}

func (h *House) Appliances() []*Appliance {
	return append([]*Appliance(nil), h.appliances...)
}

func (h *House) Volume() float64 {
	var v float64
	for _, s := range h.Storeys {
		v += s.FloorArea * s.HeightMultiplier
	}
	return v
}

// GrossFloorArea includes every storey, attic included.
func (h *House) GrossFloorArea() float64 {
	var a float64
	for _, s := range h.Storeys {
		a += s.FloorArea
	}
	return a
}

// Q is the total envelope heat flow in W, positive when heat leaves the house.
func (h *House) Q() (float64, error) {
	var q float64
	for i, s := range h.surfaces {
		f, err := s.HeatFlow(h.InternalTemp, h.ExternalTemp)
		if err != nil {
			return 0, fmt.Errorf("surface %d (%s): %w", i, s.Kind(), err)
		}
		q += f
	}
	return q, nil
}

func (h *House) Cost() float64 {
	var c float64
	for _, a := range h.appliances {
		c += a.params.Cost
	}
	for _, s := range h.surfaces {
		c += s.TotalCost()
	}
	return c
}

func (h *House) EmbodiedCarbon() float64 {
	var ec float64
	for _, a := range h.appliances {
		ec += a.params.EmbodiedCarbon
	}
	for _, s := range h.surfaces {
		ec += s.TotalEmbodiedCarbon()
	}
	return ec
}

// OperationalCarbon is the natural gas mass flow of the enabled appliances, in kg/s.
// Grid electricity is not counted.
func (h *House) OperationalCarbon() float64 {
	var p float64
	for _, a := range h.appliances {
		if a.enabled {
			p += a.GasPower()
		}
	}
	return p / NaturalGasEnergyDensity
}

// TotalAppliancePower sums the signed output of the enabled appliances whose
// behaviour is b. Cooling power is therefore negative.
func (h *House) TotalAppliancePower(b Behaviour) float64 {
	var p float64
	for _, a := range h.appliances {
		if a.enabled && a.params.Behaviour == b {
			p += a.OutputPower()
		}
	}
	return p
}

// NetAppliancePower sums the signed output of every enabled appliance.
func (h *House) NetAppliancePower() float64 {
	var p float64
	for _, a := range h.appliances {
		if a.enabled {
			p += a.OutputPower()
		}
	}
	return p
}
