package scenario

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Agrid-Dev/retrofitcalc/internal/envelope"
	"github.com/Agrid-Dev/retrofitcalc/internal/report"
)

// Appliance is an envelope appliance with an addressable identity.
type Appliance struct {
	ID   string
	Name string
	*envelope.Appliance
}

// Scenario is one house in one configuration (season, retrofit state).
// A Scenario is not safe for concurrent use; Registry serializes access.
type Scenario struct {
	ID    string
	Name  string
	House *envelope.House

	surfaceNames []string
	appliances   []Appliance
}

// New returns a scenario wrapping house. An empty id gets a random UUID.
func New(id, name string, house *envelope.House) *Scenario {
	if id == "" {
		id = uuid.NewString()
	}
	return &Scenario{ID: id, Name: name, House: house}
}

// AddSurface adds a named surface to the underlying house.
func (s *Scenario) AddSurface(name string, surf envelope.Surface) {
	s.House.AddSurface(surf)
	s.surfaceNames = append(s.surfaceNames, name)
}

// AddAppliance adds a named appliance to the underlying house and returns its id.
// An empty id gets a random UUID.
func (s *Scenario) AddAppliance(id, name string, a *envelope.Appliance) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	for _, existing := range s.appliances {
		if existing.ID == id {
			return "", fmt.Errorf("%w: %q in scenario %s", ErrDuplicateAppliance, id, s.ID)
		}
	}
	s.House.AddAppliance(a)
	s.appliances = append(s.appliances, Appliance{ID: id, Name: name, Appliance: a})
	return id, nil
}

func (s *Scenario) Appliances() []Appliance {
	return append([]Appliance(nil), s.appliances...)
}

func (s *Scenario) Appliance(id string) (*envelope.Appliance, error) {
	for _, a := range s.appliances {
		if a.ID == id {
			return a.Appliance, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in scenario %s", ErrUnknownAppliance, id, s.ID)
}

// ApplySeason runs heaters in winter and air conditioners in summer.
// Neutral appliances keep their current state.
func (s *Scenario) ApplySeason(season Season) error {
	if !season.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSeason, int(season))
	}
	for _, a := range s.appliances {
		switch a.Behaviour() {
		case envelope.BehaviourHeats:
			a.SetEnabled(season == SeasonWinter)
		case envelope.BehaviourCools:
			a.SetEnabled(season == SeasonSummer)
		}
	}
	return nil
}

// Report computes the summary of the current state, with names filled in.
func (s *Scenario) Report() (report.Summary, error) {
	sum, err := report.Compute(s.House)
	if err != nil {
		return report.Summary{}, fmt.Errorf("scenario %s: %w", s.ID, err)
	}
	sum.ScenarioID = s.ID
	sum.Name = s.Name
	for i := range sum.Surfaces {
		if i < len(s.surfaceNames) {
			sum.Surfaces[i].Name = s.surfaceNames[i]
		}
	}
	// Appliances added straight to the house have no identity and no line name.
	byPtr := make(map[*envelope.Appliance]Appliance, len(s.appliances))
	for _, a := range s.appliances {
		byPtr[a.Appliance] = a
	}
	for i, a := range s.House.Appliances() {
		if named, ok := byPtr[a]; ok && i < len(sum.Appliances) {
			sum.Appliances[i].ID = named.ID
			sum.Appliances[i].Name = named.Name
		}
	}
	return sum, nil
}
