package ports

import (
	"github.com/Agrid-Dev/retrofitcalc/internal/report"
	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
)

// ScenarioService is the control-plane port used by controllers (HTTP/MQTT/etc).
type ScenarioService interface {
	IDs() []string
	Report(id string) (report.Summary, error)
	SetApplianceEnabled(id, applianceID string, on bool) error
	SetInternalTemperature(id string, v float64) error
	SetExternalTemperature(id string, v float64) error
	SetSeason(id string, s scenario.Season) error
}

var _ ScenarioService = (*scenario.Registry)(nil)
