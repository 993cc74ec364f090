package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Agrid-Dev/retrofitcalc/cmd/app"
	httpctrl "github.com/Agrid-Dev/retrofitcalc/internal/controllers/http"
	modbusctrl "github.com/Agrid-Dev/retrofitcalc/internal/controllers/modbus"
	mqttctrl "github.com/Agrid-Dev/retrofitcalc/internal/controllers/mqtt"
	"github.com/Agrid-Dev/retrofitcalc/internal/report"
	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
)

func loadRegistry(configPath string) (app.Config, *scenario.Registry, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("building scenarios: %w", err)
	}
	return cfg, reg, nil
}

func runReport(w io.Writer, configPath, format string, ids []string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	_, reg, err := loadRegistry(configPath)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		ids = reg.IDs()
	}

	summaries := make([]report.Summary, 0, len(ids))
	for _, id := range ids {
		s, err := reg.Report(id)
		if err != nil {
			return err
		}
		summaries = append(summaries, s)
	}
	return report.Encode(w, f, summaries...)
}

func runScenarios(w io.Writer, configPath string) error {
	_, reg, err := loadRegistry(configPath)
	if err != nil {
		return err
	}
	for _, id := range reg.IDs() {
		name, err := reg.Name(id)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-20s %s\n", id, name); err != nil {
			return err
		}
	}
	return nil
}

func runServe(parent context.Context, configPath string) error {
	cfg, reg, err := loadRegistry(configPath)
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}

	ctrls, err := buildControllers(cfg, reg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range ctrls {
		log.Printf("retrofitcalc %s on %s", c.name, c.addr)
		g.Go(func() error { return c.ctrl.Run(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("server exited: %v", err)
		return err
	}
	return nil
}

type controller interface {
	Run(ctx context.Context) error
}

type namedController struct {
	name string
	addr string
	ctrl controller
}

// buildControllers constructs every enabled controller before any is started,
// so a configuration error leaves nothing running.
func buildControllers(cfg app.Config, reg *scenario.Registry) ([]namedController, error) {
	var out []namedController

	if c := cfg.Controllers.HTTP; c.Enabled {
		out = append(out, namedController{"http", c.Addr, httpctrl.New(reg, c.Addr, cfg.DeviceID)})
	}

	if c := cfg.Controllers.MQTT; c.Enabled {
		ctrl, err := mqttctrl.New(reg, mqttctrl.Config{
			DeviceID:        cfg.DeviceID,
			BrokerURL:       c.BrokerURL,
			ClientID:        c.ClientID,
			BaseTopic:       c.BaseTopic,
			QoS:             c.QoS,
			RetainReport:    c.RetainReport,
			PublishInterval: c.PublishInterval,
			Username:        c.Username,
			Password:        c.Password,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, namedController{"mqtt", c.BrokerURL, ctrl})
	}

	if c := cfg.Controllers.MODBUS; c.Enabled {
		ctrl, err := modbusctrl.New(reg, modbusctrl.Config{
			DeviceID:   cfg.DeviceID,
			Addr:       c.Addr,
			UnitID:     c.UnitID,
			ScenarioID: c.ScenarioID,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, namedController{"modbus", c.Addr, ctrl})
	}

	return out, nil
}
