package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Agrid-Dev/retrofitcalc/internal/report"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrofitcalc_requests_total",
			Help: "Total number of HTTP requests per route and status code",
		},
		[]string{"route", "code"},
	)

	VolumeM3 = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrofitcalc_volume_cubic_meters",
			Help: "Heated volume of the house",
		},
		[]string{"scenario"},
	)

	GrossFloorAreaM2 = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrofitcalc_gross_floor_area_square_meters",
			Help: "Gross floor area of the house, every storey included",
		},
		[]string{"scenario"},
	)

	Cost = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrofitcalc_cost",
			Help: "One-time cost of appliances and tracked envelope materials",
		},
		[]string{"scenario"},
	)

	EmbodiedCarbonKg = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrofitcalc_embodied_carbon_kg",
			Help: "Embodied carbon of appliances and tracked envelope materials, kgCO2e",
		},
		[]string{"scenario"},
	)

	OperationalCarbonKgPerSecond = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrofitcalc_operational_carbon_kg_per_second",
			Help: "Natural gas mass flow of the enabled appliances",
		},
		[]string{"scenario"},
	)

	AppliancePowerW = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrofitcalc_appliance_power_watts",
			Help: "Signed output of the enabled appliances per behaviour",
		},
		[]string{"scenario", "behaviour"},
	)

	EnvelopeHeatLossW = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrofitcalc_envelope_heat_loss_watts",
			Help: "Steady-state heat flow through the envelope, positive outwards",
		},
		[]string{"scenario"},
	)
)

// Observe publishes a summary under its scenario id.
func Observe(s report.Summary) {
	id := s.ScenarioID
	VolumeM3.WithLabelValues(id).Set(s.VolumeM3)
	GrossFloorAreaM2.WithLabelValues(id).Set(s.GrossFloorAreaM2)
	Cost.WithLabelValues(id).Set(s.Cost)
	EmbodiedCarbonKg.WithLabelValues(id).Set(s.EmbodiedCarbonKg)
	OperationalCarbonKgPerSecond.WithLabelValues(id).Set(s.OperationalCarbonKgPerS)
	AppliancePowerW.WithLabelValues(id, "heats").Set(s.HeatingPowerW)
	AppliancePowerW.WithLabelValues(id, "cools").Set(s.CoolingPowerW)
	AppliancePowerW.WithLabelValues(id, "net").Set(s.NetAppliancePowerW)
	EnvelopeHeatLossW.WithLabelValues(id).Set(s.EnvelopeHeatLossW)
}

// Forget drops every gauge published for a scenario, so a scenario that can
// no longer report does not keep exporting its last good values.
func Forget(id string) {
	VolumeM3.DeleteLabelValues(id)
	GrossFloorAreaM2.DeleteLabelValues(id)
	Cost.DeleteLabelValues(id)
	EmbodiedCarbonKg.DeleteLabelValues(id)
	OperationalCarbonKgPerSecond.DeleteLabelValues(id)
	for _, b := range []string{"heats", "cools", "net"} {
		AppliancePowerW.DeleteLabelValues(id, b)
	}
	EnvelopeHeatLossW.DeleteLabelValues(id)
}
