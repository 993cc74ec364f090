package testutil

import (
	"fmt"

	"github.com/Agrid-Dev/retrofitcalc/internal/report"
	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
)

// FakeScenarioService is a reusable fake implementing ports.ScenarioService.
// Put ONLY what multiple test packages need here.
type FakeScenarioService struct {
	Summaries map[string]report.Summary
	Order     []string
	ReportErr error

	SetApplianceEnabledCalled bool
	SetApplianceEnabledID     string
	SetApplianceEnabledArg    bool
	SetApplianceEnabledErr    error

	SetInternalCalled bool
	SetInternalArg    float64
	SetInternalErr    error

	SetExternalCalled bool
	SetExternalArg    float64
	SetExternalErr    error

	SetSeasonCalled bool
	SetSeasonArg    scenario.Season
	SetSeasonErr    error
}

// NewFakeScenarioService returns a fake holding a single scenario "house"
// with a heater and an air conditioner.
func NewFakeScenarioService() *FakeScenarioService {
	return &FakeScenarioService{
		Order: []string{"house"},
		Summaries: map[string]report.Summary{
			"house": {
				ScenarioID:          "house",
				Name:                "Test house",
				InternalTemperature: 22,
				ExternalTemperature: -6.7,
				VolumeM3:            432.75,
				GrossFloorAreaM2:    285.3,
				Cost:                9369,
				EmbodiedCarbonKg:    600,
				HeatingPowerW:       18000,
				CoolingPowerW:       0,
				EnvelopeHeatLossW:   12000,
				Appliances: []report.ApplianceLine{
					{ID: "heater", Name: "Heater", Behaviour: "heats", Enabled: true, OutputPowerW: 18000},
					{ID: "ac", Name: "AC", Behaviour: "cools", Enabled: false, OutputPowerW: -3200},
				},
			},
		},
	}
}

func (f *FakeScenarioService) IDs() []string { return append([]string(nil), f.Order...) }

func (f *FakeScenarioService) Report(id string) (report.Summary, error) {
	if f.ReportErr != nil {
		return report.Summary{}, f.ReportErr
	}
	s, ok := f.Summaries[id]
	if !ok {
		return report.Summary{}, fmt.Errorf("%w: %q", scenario.ErrUnknownScenario, id)
	}
	return s, nil
}

func (f *FakeScenarioService) SetApplianceEnabled(id, applianceID string, on bool) error {
	f.SetApplianceEnabledCalled = true
	f.SetApplianceEnabledID = applianceID
	f.SetApplianceEnabledArg = on
	if f.SetApplianceEnabledErr != nil {
		return f.SetApplianceEnabledErr
	}
	s, ok := f.Summaries[id]
	if !ok {
		return fmt.Errorf("%w: %q", scenario.ErrUnknownScenario, id)
	}
	for i := range s.Appliances {
		if s.Appliances[i].ID == applianceID {
			s.Appliances[i].Enabled = on
			return nil
		}
	}
	return fmt.Errorf("%w: %q", scenario.ErrUnknownAppliance, applianceID)
}

func (f *FakeScenarioService) SetInternalTemperature(id string, v float64) error {
	f.SetInternalCalled = true
	f.SetInternalArg = v
	if f.SetInternalErr != nil {
		return f.SetInternalErr
	}
	return f.update(id, func(s *report.Summary) { s.InternalTemperature = v })
}

func (f *FakeScenarioService) SetExternalTemperature(id string, v float64) error {
	f.SetExternalCalled = true
	f.SetExternalArg = v
	if f.SetExternalErr != nil {
		return f.SetExternalErr
	}
	return f.update(id, func(s *report.Summary) { s.ExternalTemperature = v })
}

func (f *FakeScenarioService) SetSeason(id string, season scenario.Season) error {
	f.SetSeasonCalled = true
	f.SetSeasonArg = season
	if f.SetSeasonErr != nil {
		return f.SetSeasonErr
	}
	if !season.Valid() {
		return scenario.ErrInvalidSeason
	}
	return f.update(id, func(*report.Summary) {})
}

func (f *FakeScenarioService) update(id string, fn func(*report.Summary)) error {
	s, ok := f.Summaries[id]
	if !ok {
		return fmt.Errorf("%w: %q", scenario.ErrUnknownScenario, id)
	}
	fn(&s)
	f.Summaries[id] = s
	return nil
}
