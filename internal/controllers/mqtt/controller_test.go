package mqttctrl

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
	"github.com/Agrid-Dev/retrofitcalc/internal/testutil"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type fakeToken struct {
	err  error
	done chan struct{}
}

func (t fakeToken) Done() <-chan struct{} {
	if t.done == nil {
		t.done = make(chan struct{})
		close(t.done)
	}
	return t.done
}

func (t fakeToken) Wait() bool                       { return true }
func (t fakeToken) WaitTimeout(_ time.Duration) bool { return true }
func (t fakeToken) Error() error                     { return t.err }

type publishCall struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

type fakeClient struct {
	publishes []publishCall
}

func (c *fakeClient) IsConnected() bool      { return true }
func (c *fakeClient) IsConnectionOpen() bool { return true }
func (c *fakeClient) Connect() mqtt.Token    { return fakeToken{} }
func (c *fakeClient) Disconnect(_ uint)      {}
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	var b []byte
	switch v := payload.(type) {
	case []byte:
		b = append([]byte(nil), v...)
	case string:
		b = []byte(v)
	default:
		tmp, _ := json.Marshal(v)
		b = tmp
	}
	c.publishes = append(c.publishes, publishCall{
		topic: topic, qos: qos, retain: retained, payload: b,
	})
	return fakeToken{}
}
func (c *fakeClient) Subscribe(_ string, _ byte, _ mqtt.MessageHandler) mqtt.Token {
	return fakeToken{}
}
func (c *fakeClient) SubscribeMultiple(_ map[string]byte, _ mqtt.MessageHandler) mqtt.Token {
	return fakeToken{}
}
func (c *fakeClient) Unsubscribe(_ ...string) mqtt.Token       { return fakeToken{} }
func (c *fakeClient) AddRoute(_ string, _ mqtt.MessageHandler) {}
func (c *fakeClient) OptionsReader() mqtt.ClientOptionsReader  { return mqtt.ClientOptionsReader{} }

// ---- tests ----
func newTestController(t *testing.T, cfg Config) (*Controller, *testutil.FakeScenarioService, *fakeClient) {
	t.Helper()
	svc := testutil.NewFakeScenarioService()
	if cfg.DeviceID == "" {
		cfg.DeviceID = "lab"
	}
	c, err := New(svc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	fc := &fakeClient{}
	c.client = fc
	return c, svc, fc
}

func TestNewDefaults(t *testing.T) {
	c, err := New(testutil.NewFakeScenarioService(), Config{DeviceID: "lab"})
	if err != nil {
		t.Fatal(err)
	}

	if c.cfg.BrokerURL != "tcp://localhost:1883" {
		t.Fatalf("expected default BrokerURL, got %q", c.cfg.BrokerURL)
	}
	if c.cfg.BaseTopic != "retrofitcalc/lab" {
		t.Fatalf("expected default BaseTopic, got %q", c.cfg.BaseTopic)
	}
	if c.cfg.ClientID != "retrofitcalc-lab" {
		t.Fatalf("expected default ClientID, got %q", c.cfg.ClientID)
	}
	if c.cfg.PublishInterval != 1*time.Second {
		t.Fatalf("expected default PublishInterval, got %v", c.cfg.PublishInterval)
	}
}

func TestNewValidation(t *testing.T) {
	svc := testutil.NewFakeScenarioService()

	if _, err := New(svc, Config{}); err == nil {
		t.Fatal("expected error when DeviceID missing")
	}

	if _, err := New(svc, Config{DeviceID: "x", QoS: 2}); err == nil {
		t.Fatal("expected error when QoS > 1")
	}
}

func TestTopicJoin(t *testing.T) {
	c, _, _ := newTestController(t, Config{BaseTopic: "retrofitcalc/lab/"})
	if got := c.topic("house/report"); got != "retrofitcalc/lab/house/report" {
		t.Fatalf("expected topic without double slashes, got %q", got)
	}
}

func TestDecodeValueStrict(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := decodeValueStrict[float64]([]byte(`{"value": 12.5}`))
		if err != nil {
			t.Fatal(err)
		}
		if v != 12.5 {
			t.Fatalf("expected 12.5, got %v", v)
		}
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := decodeValueStrict[bool]([]byte(`{}`))
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := decodeValueStrict[string]([]byte(`{"value":"winter","extra":1}`))
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := decodeValueStrict[string]([]byte(`{"value":`))
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestOnMessage_IgnoresWrongPrefix(t *testing.T) {
	c, svc, _ := newTestController(t, Config{})

	c.onMessage(nil, fakeMessage{
		topic:   "otherprefix/house/set/internal_temperature",
		payload: []byte(`{"value":20}`),
	})

	if svc.SetInternalCalled {
		t.Fatal("expected SetInternalTemperature not called")
	}
}

func TestOnMessage_InternalTemperature(t *testing.T) {
	c, svc, _ := newTestController(t, Config{})

	c.onMessage(nil, fakeMessage{
		topic:   "retrofitcalc/lab/house/set/internal_temperature",
		payload: []byte(`{"value":21.5}`),
	})

	if !svc.SetInternalCalled || svc.SetInternalArg != 21.5 {
		t.Fatalf("expected SetInternalTemperature(21.5), got called=%v arg=%v", svc.SetInternalCalled, svc.SetInternalArg)
	}
}

func TestOnMessage_ExternalTemperature(t *testing.T) {
	c, svc, _ := newTestController(t, Config{})

	c.onMessage(nil, fakeMessage{
		topic:   "retrofitcalc/lab/house/set/external_temperature",
		payload: []byte(`{"value":-20}`),
	})

	if !svc.SetExternalCalled || svc.SetExternalArg != -20 {
		t.Fatalf("expected SetExternalTemperature(-20), got called=%v arg=%v", svc.SetExternalCalled, svc.SetExternalArg)
	}
}

func TestOnMessage_Season(t *testing.T) {
	c, svc, _ := newTestController(t, Config{})

	c.onMessage(nil, fakeMessage{
		topic:   "retrofitcalc/lab/house/set/season",
		payload: []byte(`{"value":"summer"}`),
	})

	if !svc.SetSeasonCalled || svc.SetSeasonArg != scenario.SeasonSummer {
		t.Fatalf("expected SetSeason(summer), got called=%v arg=%v", svc.SetSeasonCalled, svc.SetSeasonArg)
	}
}

func TestOnMessage_SeasonInvalid_DoesNotCallService(t *testing.T) {
	c, svc, _ := newTestController(t, Config{})

	c.onMessage(nil, fakeMessage{
		topic:   "retrofitcalc/lab/house/set/season",
		payload: []byte(`{"value":"autumn"}`),
	})

	if svc.SetSeasonCalled {
		t.Fatal("expected SetSeason not called")
	}
}

func TestOnMessage_ApplianceEnabled(t *testing.T) {
	c, svc, _ := newTestController(t, Config{})

	c.onMessage(nil, fakeMessage{
		topic:   "retrofitcalc/lab/house/set/appliances/ac/enabled",
		payload: []byte(`{"value":true}`),
	})

	if !svc.SetApplianceEnabledCalled || svc.SetApplianceEnabledID != "ac" || !svc.SetApplianceEnabledArg {
		t.Fatalf("expected SetApplianceEnabled(ac, true), got called=%v id=%q arg=%v",
			svc.SetApplianceEnabledCalled, svc.SetApplianceEnabledID, svc.SetApplianceEnabledArg)
	}
}

func TestOnMessage_MalformedTopics_AreIgnored(t *testing.T) {
	topics := []string{
		"retrofitcalc/lab/house/set/appliances//enabled",
		"retrofitcalc/lab/house/set/appliances/ac",
		"retrofitcalc/lab/house/set/appliances/a/b/enabled",
		"retrofitcalc/lab/house/set/unknown",
		"retrofitcalc/lab/set/internal_temperature",
	}
	for _, topic := range topics {
		c, svc, _ := newTestController(t, Config{})
		c.onMessage(nil, fakeMessage{topic: topic, payload: []byte(`{"value":true}`)})
		if svc.SetApplianceEnabledCalled || svc.SetInternalCalled {
			t.Fatalf("topic %q: expected no service call", topic)
		}
	}
}

func TestPublishChanged_PublishesOnlyOnChange(t *testing.T) {
	c, svc, fc := newTestController(t, Config{QoS: 1, RetainReport: true})

	c.publishChanged()
	if len(fc.publishes) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(fc.publishes))
	}

	p := fc.publishes[0]
	if p.topic != "retrofitcalc/lab/house/report" {
		t.Fatalf("expected report topic, got %q", p.topic)
	}
	if p.qos != 1 || p.retain != true {
		t.Fatalf("expected qos=1 retain=true, got qos=%d retain=%v", p.qos, p.retain)
	}

	var got map[string]any
	if err := json.Unmarshal(p.payload, &got); err != nil {
		t.Fatalf("invalid published json: %v payload=%s", err, string(p.payload))
	}
	if got["scenario_id"] != "house" {
		t.Fatalf("expected scenario_id=house, got %v", got["scenario_id"])
	}

	// Unchanged => no publish.
	c.publishChanged()
	if len(fc.publishes) != 1 {
		t.Fatalf("expected no publish for unchanged report, got %d", len(fc.publishes))
	}

	if err := svc.SetExternalTemperature("house", 30); err != nil {
		t.Fatal(err)
	}
	c.publishChanged()
	if len(fc.publishes) != 2 {
		t.Fatalf("expected publish after change, got %d", len(fc.publishes))
	}
}

func TestPublishChanged_SkipsFailingReports(t *testing.T) {
	c, svc, fc := newTestController(t, Config{})
	svc.ReportErr = errors.New("boom")

	c.publishChanged()

	if len(fc.publishes) != 0 {
		t.Fatalf("expected no publish, got %d", len(fc.publishes))
	}
}

// The controller swallows service errors.
func TestOnMessage_ServiceError_IsIgnored(t *testing.T) {
	c, svc, _ := newTestController(t, Config{})
	svc.SetInternalErr = errors.New("boom")

	c.onMessage(nil, fakeMessage{
		topic:   "retrofitcalc/lab/house/set/internal_temperature",
		payload: []byte(`{"value":25}`),
	})

	if !svc.SetInternalCalled {
		t.Fatal("expected SetInternalTemperature called")
	}
}
