package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Agrid-Dev/retrofitcalc/internal/envelope"
	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
)

// EnvPrefix scopes environment overrides, e.g. RETROFITCALC_CONTROLLERS_HTTP_ADDR.
const EnvPrefix = "RETROFITCALC_"

type Config struct {
	DeviceID    string `koanf:"device_id"`
	Controllers struct {
		HTTP   HTTPConfig   `koanf:"http"`
		MQTT   MQTTConfig   `koanf:"mqtt"`
		MODBUS ModbusConfig `koanf:"modbus"`
	} `koanf:"controllers"`

	// Empty means the built-in sample scenarios.
	Scenarios []ScenarioConfig `koanf:"scenarios"`
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BrokerURL       string        `koanf:"broker_url"`
	ClientID        string        `koanf:"client_id"`
	BaseTopic       string        `koanf:"base_topic"`
	QoS             byte          `koanf:"qos"`
	RetainReport    bool          `koanf:"retain_report"`
	PublishInterval time.Duration `koanf:"publish_interval"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
}

type ModbusConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Addr       string `koanf:"addr"`
	UnitID     byte   `koanf:"unit_id"`
	ScenarioID string `koanf:"scenario_id"`
}

// ScenarioConfig describes one house. Wall layers are given as parallel
// columns, one entry per layer.
type ScenarioConfig struct {
	ID                  string  `koanf:"id"`
	Name                string  `koanf:"name"`
	Season              string  `koanf:"season"` // "winter" | "summer" | ""
	InternalTemperature float64 `koanf:"internal_temperature"`
	ExternalTemperature float64 `koanf:"external_temperature"`

	Storeys    []StoreyConfig    `koanf:"storeys"`
	Walls      []WallConfig      `koanf:"walls"`
	Windows    []WindowConfig    `koanf:"windows"`
	Appliances []ApplianceConfig `koanf:"appliances"`
}

type StoreyConfig struct {
	FloorArea        float64 `koanf:"floor_area"`
	HeightMultiplier float64 `koanf:"height_multiplier"`
}

type WallConfig struct {
	Name                 string    `koanf:"name"`
	Area                 float64   `koanf:"area"`
	Thickness            []float64 `koanf:"thickness"`
	ResistancePerInch    []float64 `koanf:"resistance_per_inch"`
	Density              []float64 `koanf:"density"`
	EmbodiedCarbonFactor []float64 `koanf:"embodied_carbon_factor"`
	CostFactor           []float64 `koanf:"cost_factor"`
}

type WindowConfig struct {
	Name           string  `koanf:"name"`
	Area           float64 `koanf:"area"`
	Resistance     float64 `koanf:"resistance"`
	EmbodiedCarbon float64 `koanf:"embodied_carbon"`
	Cost           float64 `koanf:"cost"`
}

type ApplianceConfig struct {
	ID                string  `koanf:"id"`
	Name              string  `koanf:"name"`
	Behaviour         string  `koanf:"behaviour"` // "heats" | "cools" | "neutral"
	Efficiency        float64 `koanf:"efficiency"`
	EnergyConsumption float64 `koanf:"energy_consumption"`
	FractionGas       float64 `koanf:"fraction_gas"`
	EmbodiedCarbon    float64 `koanf:"embodied_carbon"`
	Cost              float64 `koanf:"cost"`
	Enabled           *bool   `koanf:"enabled"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.DeviceID = "default"
	cfg.Controllers.HTTP.Addr = ":8080"
	cfg.Controllers.MQTT.BrokerURL = "tcp://localhost:1883"
	cfg.Controllers.MQTT.PublishInterval = 1 * time.Second
	cfg.Controllers.MODBUS.Addr = "127.0.0.1:1502"
	cfg.Controllers.MODBUS.UnitID = 1
	return cfg
}

// LoadConfig layers defaults, the config file (if any) and RETROFITCALC_*
// environment variables, in that order. A missing file means defaults.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKeyTransform(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config extension %q", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DeviceID == "" {
		cfg.DeviceID = "default"
	}
	if !cfg.Controllers.HTTP.Enabled && !cfg.Controllers.MQTT.Enabled && !cfg.Controllers.MODBUS.Enabled {
		cfg.Controllers.HTTP.Enabled = true
	}
}

// envKeyTransform maps an unprefixed env var name to a koanf key path.
// Section names may contain underscores, so only known sections are split.
func envKeyTransform(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	// controllers_<controller>_<field...>
	if rest, ok := strings.CutPrefix(s, "controllers_"); ok {
		ctrl, field, ok := strings.Cut(rest, "_")
		if !ok {
			return s
		}
		return "controllers." + ctrl + "." + field
	}
	return s
}

// Registry builds the configured scenarios, or the samples when none are set.
func (c Config) Registry() (*scenario.Registry, error) {
	if len(c.Scenarios) == 0 {
		samples, err := scenario.Samples()
		if err != nil {
			return nil, err
		}
		return scenario.NewRegistry(samples...)
	}

	out := make([]*scenario.Scenario, 0, len(c.Scenarios))
	for i, sc := range c.Scenarios {
		s, err := sc.Build()
		if err != nil {
			return nil, fmt.Errorf("scenarios[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return scenario.NewRegistry(out...)
}

// Build turns the description into a scenario. Season, when set, overrides the
// appliances' enabled flags.
func (sc ScenarioConfig) Build() (*scenario.Scenario, error) {
	h := envelope.NewHouse(sc.InternalTemperature, sc.ExternalTemperature)
	for _, st := range sc.Storeys {
		h.AddStorey(st.FloorArea, st.HeightMultiplier)
	}
	s := scenario.New(sc.ID, sc.Name, h)

	for _, w := range sc.Walls {
		wall, err := envelope.NewWallFromColumns(w.Area,
			w.Thickness, w.ResistancePerInch, w.Density, w.EmbodiedCarbonFactor, w.CostFactor)
		if err != nil {
			return nil, fmt.Errorf("wall %q: %w", w.Name, err)
		}
		s.AddSurface(w.Name, wall)
	}

	for _, w := range sc.Windows {
		win, err := envelope.NewWindow(w.Area, w.Resistance, w.EmbodiedCarbon, w.Cost)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", w.Name, err)
		}
		s.AddSurface(w.Name, win)
	}

	for _, a := range sc.Appliances {
		b, err := envelope.ParseBehaviour(a.Behaviour)
		if err != nil {
			return nil, fmt.Errorf("appliance %q: %w", a.Name, err)
		}
		enabled := true
		if a.Enabled != nil {
			enabled = *a.Enabled
		}
		app, err := envelope.NewAppliance(envelope.ApplianceParams{
			Behaviour:         b,
			Efficiency:        a.Efficiency,
			EnergyConsumption: a.EnergyConsumption,
			FractionGas:       a.FractionGas,
			EmbodiedCarbon:    a.EmbodiedCarbon,
			Cost:              a.Cost,
		}, enabled)
		if err != nil {
			return nil, fmt.Errorf("appliance %q: %w", a.Name, err)
		}
		if _, err := s.AddAppliance(a.ID, a.Name, app); err != nil {
			return nil, err
		}
	}

	if sc.Season != "" {
		season, err := scenario.ParseSeason(sc.Season)
		if err != nil {
			return nil, err
		}
		if err := s.ApplySeason(season); err != nil {
			return nil, err
		}
	}
	return s, nil
}
