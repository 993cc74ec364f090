package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Agrid-Dev/retrofitcalc/internal/ports"
	"github.com/Agrid-Dev/retrofitcalc/internal/report"
	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
)

type Config struct {
	// Identity
	DeviceID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS             byte
	RetainReport    bool
	PublishInterval time.Duration

	Username string
	Password string
}

type Controller struct {
	svc ports.ScenarioService
	cfg Config

	client mqtt.Client
	last   map[string]report.Summary
}

func New(svc ports.ScenarioService, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if cfg.DeviceID == "" {
		return nil, errors.New("mqtt: DeviceID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "retrofitcalc/" + cfg.DeviceID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "retrofitcalc-" + cfg.DeviceID
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = 1 * time.Second
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Controller{
		svc:  svc,
		cfg:  cfg,
		last: make(map[string]report.Summary),
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		// <base>/<scenario>/set/<field...>
		token := cl.Subscribe(c.topic("+/set/#"), c.cfg.QoS, c.onMessage)
		token.Wait()
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	ticker := time.NewTicker(c.cfg.PublishInterval)
	defer ticker.Stop()

	c.publishChanged()

	for {
		select {
		case <-ctx.Done():
			c.client.Disconnect(250)
			return ctx.Err()

		case <-ticker.C:
			c.publishChanged()
		}
	}
}

// publishChanged publishes the report of every scenario whose report
// differs from the last one sent. Scenarios that fail to report are skipped.
func (c *Controller) publishChanged() {
	for _, id := range c.svc.IDs() {
		cur, err := c.svc.Report(id)
		if err != nil {
			continue
		}
		if prev, ok := c.last[id]; ok && reflect.DeepEqual(prev, cur) {
			continue
		}
		c.publishReport(id, cur)
		c.last[id] = cur
	}
}

func (c *Controller) publishReport(id string, s report.Summary) {
	b, _ := json.Marshal(s)
	c.client.Publish(c.topic(id+"/report"), c.cfg.QoS, c.cfg.RetainReport, b)
}

// Command payload format: {"value": ...}
type valueReq[T any] struct {
	Value *T `json:"value"`
}

func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	// topic format: <base>/<scenario>/set/<field>
	t := msg.Topic()
	prefix := strings.TrimRight(c.cfg.BaseTopic, "/") + "/"
	if !strings.HasPrefix(t, prefix) {
		return
	}
	id, field, ok := strings.Cut(strings.TrimPrefix(t, prefix), "/set/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return
	}

	payload := msg.Payload()

	switch field {
	case "internal_temperature":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetInternalTemperature(id, v)

	case "external_temperature":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetExternalTemperature(id, v)

	case "season":
		s, err := decodeValueStrict[string](payload)
		if err != nil {
			return
		}
		season, err := scenario.ParseSeason(s)
		if err != nil {
			return
		}
		_ = c.svc.SetSeason(id, season)

	default:
		// appliances/<appliance>/enabled
		rest, ok := strings.CutPrefix(field, "appliances/")
		if !ok {
			return
		}
		applianceID, ok := strings.CutSuffix(rest, "/enabled")
		if !ok || applianceID == "" || strings.Contains(applianceID, "/") {
			return
		}
		v, err := decodeValueStrict[bool](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetApplianceEnabled(id, applianceID, v)
	}
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func decodeValueStrict[T any](b []byte) (T, error) {
	var zero T
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var req valueReq[T]
	if err := dec.Decode(&req); err != nil {
		return zero, err
	}
	if req.Value == nil {
		return zero, errors.New("missing field 'value'")
	}
	return *req.Value, nil
}
