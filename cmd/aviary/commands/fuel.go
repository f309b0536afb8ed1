package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/superlil27/Aviary/pkg/mission"
	"github.com/superlil27/Aviary/pkg/stores"
	"github.com/superlil27/Aviary/pkg/telemetry"
)

// fuelInput is the solver results file the fuel command consumes.
type fuelInput struct {
	// Additional is the flat reserve margin.
	Additional float64 `yaml:"additional"`

	// Fraction is the fraction of mission fuel burned added as margin.
	Fraction float64 `yaml:"fraction"`

	// Results are the per-phase solver outcomes.
	Results []mission.PhaseResult `yaml:"results"`
}

func newFuelCommand() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "fuel <results-file>",
		Short: "Account reserve fuel from solver results",
		Long: `Aggregate per-phase fuel burn from a solver results file into mission
and reserve totals:

  RESERVE_FUEL = additional + fraction * FUEL_BURNED + RESERVE_FUEL_BURNED

The results file is YAML:

  additional: 300
  fraction: 0.05
  results:
    - {phase: climb1, group: regular, fuel_burned: 1800}
    - {phase: cruise, group: regular, fuel_burned: 4800}
    - {phase: reserve_cruise, group: reserve, fuel_burned: 750}

With --state and --run the summary is attached to a recorded run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, err := newTelemetry(cmd.Root().Version, "")
			if err != nil {
				return err
			}
			defer func() { _ = tel.Shutdown(cmd.Context()) }()

			ctx := tel.WithContext(cmd.Context())

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read results file: %w", err)
			}

			var input fuelInput
			if err := yaml.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("failed to parse results file: %w", err)
			}

			ctx, span := tel.Tracer.StartAccountingSpan(ctx, len(input.Results))
			defer span.End()

			summary, err := mission.AccountFuel(input.Results, input.Additional, input.Fraction)
			if err != nil {
				telemetry.RecordError(span, err)
				return err
			}
			telemetry.RecordSuccess(span)

			if runID != "" {
				if statePath == "" {
					return fmt.Errorf("--run requires --state")
				}
				store, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()

				// Fail early on unknown run IDs.
				if _, err := store.GetRun(ctx, runID); err != nil {
					return err
				}
				if err := store.SaveFuelSummary(ctx, stores.NewFuelSummaryRecord(runID, summary)); err != nil {
					return err
				}
			}

			if jsonOutput {
				return printJSON(summary)
			}

			fmt.Printf("fuel burned:          %g\n", summary.FuelBurned)
			fmt.Printf("reserve fuel burned:  %g\n", summary.ReserveFuelBurned)
			fmt.Printf("reserve fuel:         %g\n", summary.ReserveFuel)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "recorded run to attach the summary to")

	return cmd
}
