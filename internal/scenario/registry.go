package scenario

import (
	"fmt"
	"sync"

	"github.com/Agrid-Dev/retrofitcalc/internal/report"
)

// Registry owns a set of scenarios and serializes every access to them, so
// that several controllers can share the same houses.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	scenarios map[string]*Scenario
}

func NewRegistry(scenarios ...*Scenario) (*Registry, error) {
	r := &Registry{scenarios: make(map[string]*Scenario, len(scenarios))}
	for _, s := range scenarios {
		if err := r.Add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Add(s *Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scenarios[s.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateScenario, s.ID)
	}
	r.scenarios[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// IDs returns scenario ids in insertion order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Name returns the display name of a scenario.
func (r *Registry) Name(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, err := r.get(id)
	if err != nil {
		return "", err
	}
	return s.Name, nil
}

func (r *Registry) Report(id string) (report.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, err := r.get(id)
	if err != nil {
		return report.Summary{}, err
	}
	return s.Report()
}

func (r *Registry) SetApplianceEnabled(id, applianceID string, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	a, err := s.Appliance(applianceID)
	if err != nil {
		return err
	}
	a.SetEnabled(on)
	return nil
}

func (r *Registry) SetInternalTemperature(id string, v float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	s.House.InternalTemp = v
	return nil
}

func (r *Registry) SetExternalTemperature(id string, v float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	s.House.ExternalTemp = v
	return nil
}

func (r *Registry) SetSeason(id string, season Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	return s.ApplySeason(season)
}

func (r *Registry) get(id string) (*Scenario, error) {
	s, ok := r.scenarios[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return s, nil
}
