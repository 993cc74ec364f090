package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
)

// SweepCellulose writes, for each cellulose thickness from 0 to maxInches in
// steps of step inches, the retrofitted house's winter heat loss, cost and
// embodied carbon.
func SweepCellulose(maxInches, step float64, filename string) error {
	if step <= 0 {
		return fmt.Errorf("step must be positive, got %v", step)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"ThicknessIn", "HeatLossW", "Cost", "EmbodiedCarbonKg", "OperationalCarbonKgMonth"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for in := 0.0; in <= maxInches; in += step {
		s, err := scenario.RetrofitWithCellulose(scenario.SeasonWinter, in)
		if err != nil {
			return fmt.Errorf("failed to build scenario: %v", err)
		}
		sum, err := s.Report()
		if err != nil {
			return fmt.Errorf("failed to compute report: %v", err)
		}

		if err := writer.Write([]string{
			fmt.Sprintf("%.1f", in),
			fmt.Sprintf("%.1f", sum.EnvelopeHeatLossW),
			fmt.Sprintf("%.2f", sum.Cost),
			fmt.Sprintf("%.2f", sum.EmbodiedCarbonKg),
			fmt.Sprintf("%.2f", sum.OperationalCarbonKgMonth),
		}); err != nil {
			return fmt.Errorf("failed to write CSV record: %v", err)
		}
	}

	return writer.Error()
}

func main() {
	if err := SweepCellulose(16, 0.5, "cellulose_sweep.csv"); err != nil {
		log.Fatal(err)
	}
}
