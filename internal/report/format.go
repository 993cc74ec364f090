package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid report format: %q", s)
	}
}

// Encode writes the summaries in the requested format.
func Encode(w io.Writer, format Format, summaries ...Summary) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summaries); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		for _, s := range summaries {
			if err := Fprint(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid report format: %q", format)
	}
}

// Fprint writes the human-readable report for one house.
func Fprint(w io.Writer, s Summary) error {
	p := &printer{w: w}

	if s.Name != "" {
		rule := "=================================================================="
		p.println()
		p.println(rule)
		p.println(s.Name)
		p.println(rule)
	}

	p.println()
	p.println("=== House Geometry ===")
	p.printf("Volume: %.0f m^3\n", math.Round(s.VolumeM3))
	p.printf("Gross floor area: %.1f m^2\n", s.GrossFloorAreaM2)

	p.println()
	p.println("=== Retrofits Information ===")
	p.printf("Cost: $%.2f\n", s.Cost)
	p.printf("Cost per Square Foot: $%.2f\n", s.CostPerSquareFoot)
	p.printf("Embodied carbon: %.0f kgCO2e\n", math.Round(s.EmbodiedCarbonKg))
	p.printf("Embodied carbon per Gross Floor Area: %.2f kgCO2e/m2\n", s.EmbodiedCarbonPerAreaKg)

	p.println()
	p.println("=== House Heating Systems Information ===")
	p.printf("Operational carbon per month: %.0f kgCO2e\n", math.Round(s.OperationalCarbonKgMonth))
	p.printf("Maximum heating power: %.0f W\n", math.Round(s.HeatingPowerW))
	p.printf("Maximum cooling power: %.0f W\n", math.Round(s.CoolingPowerW))
	p.printf("Required heating power to maintain constant temperature (counteract envelope heat loss): %.0f W\n",
		math.Round(s.EnvelopeHeatLossW))

	if len(s.Surfaces) > 0 {
		p.println()
		p.printf("%-28s %-8s %10s %10s %12s\n", "Surface", "Kind", "Area m2", "RSI", "Q W")
		for _, l := range s.Surfaces {
			p.printf("%-28s %-8s %10.2f %10.3f %12.1f\n", l.Name, l.Kind, l.AreaM2, l.Resistance, l.HeatFlowW)
		}
	}
	return p.err
}

// printer keeps the first write error so the layout above stays readable.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, args...)
}
