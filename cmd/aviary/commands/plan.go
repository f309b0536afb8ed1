package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/superlil27/Aviary/pkg/config"
	"github.com/superlil27/Aviary/pkg/mission"
	"github.com/superlil27/Aviary/pkg/stores"
	"github.com/superlil27/Aviary/pkg/telemetry"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <mission-file>",
		Short: "Produce the annotated plan for a mission",
		Long: `Run the full preprocessing pipeline over a mission description and
print the annotated plan: classified phases, resolved targets, and the
continuity directives handed to the solver.

With --state the run is also recorded in the run database.`,
		Example: `  # Plan a mission and print the directives
  aviary plan mission.yaml

  # Record the run and emit JSON
  aviary plan --state runs.db --json mission.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, err := newTelemetry(cmd.Root().Version, "")
			if err != nil {
				return err
			}
			defer func() { _ = tel.Shutdown(cmd.Context()) }()

			ctx := tel.WithContext(cmd.Context())

			cfg, err := loadMission(ctx, args[0])
			if err != nil {
				return err
			}

			if err := evaluatePolicies(ctx, tel, cfg, "plan"); err != nil {
				return err
			}

			runID, result, err := runPlan(ctx, tel, cfg)
			if err != nil {
				return err
			}

			return printPlan(cfg, runID, result)
		},
	}

	return cmd
}

// runPlan preprocesses a validated mission, records metrics and spans, and
// stores the run when --state is set. It returns the recorded run ID, empty
// when recording is off.
func runPlan(ctx context.Context, tel *telemetry.Telemetry, cfg *config.MissionConfig) (string, *mission.PreprocessResult, error) {
	eom := string(cfg.Mission.EquationsOfMotion)

	ctx, span := tel.Tracer.StartPreprocessSpan(ctx, cfg.Mission.Name, eom)
	defer span.End()

	seq, err := cfg.ToSequence()
	if err != nil {
		telemetry.RecordError(span, err)
		return "", nil, err
	}

	start := time.Now()
	result, err := mission.Preprocess(ctx, seq)
	if err != nil {
		telemetry.RecordError(span, err)
		tel.Metrics.RecordPreprocess("failed", eom, time.Since(start))
		var merr *mission.MissionError
		if errors.As(err, &merr) {
			tel.Metrics.RecordError(string(merr.Class), merr.Code)
		}
		if statePath != "" {
			if recErr := recordFailedRun(ctx, cfg, err); recErr != nil {
				log.Warn().Err(recErr).Msg("failed to record failed run")
			}
		}
		return "", nil, err
	}

	telemetry.RecordSuccess(span)
	tel.Metrics.RecordPreprocess("completed", eom, time.Since(start))
	for _, p := range result.Sequence.Phases {
		tel.Metrics.RecordPhase(string(p.Group), p.Analytic)
	}
	for _, d := range result.Directives {
		tel.Metrics.RecordDirective(string(d.Kind))
	}
	for range result.Warnings {
		tel.Metrics.RecordWarning()
	}

	var runID string
	if statePath != "" {
		runID, err = recordRun(ctx, cfg.Mission.Name, result)
		if err != nil {
			return "", nil, err
		}
		log.Info().Str("run_id", runID).Msg("run recorded")
	}

	return runID, result, nil
}

// recordRun persists a successful run and returns its ID.
func recordRun(ctx context.Context, missionName string, result *mission.PreprocessResult) (string, error) {
	store, err := openStore(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()

	run, phases, directives, err := stores.NewRunRecord(missionName, result)
	if err != nil {
		return "", err
	}
	if err := store.SaveRun(ctx, run, phases, directives); err != nil {
		return "", err
	}
	return run.ID, nil
}

// recordFailedRun persists a failed run so it shows up in run history.
func recordFailedRun(ctx context.Context, cfg *config.MissionConfig, runErr error) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run := stores.NewFailedRunRecord(cfg.Mission.Name, cfg.Mission.EquationsOfMotion, runErr)
	return store.SaveRun(ctx, run, nil, nil)
}

// printPlan renders the annotated plan as text or JSON.
func printPlan(cfg *config.MissionConfig, runID string, result *mission.PreprocessResult) error {
	if jsonOutput {
		out := map[string]interface{}{
			"mission":    cfg.Mission.Name,
			"eom":        cfg.Mission.EquationsOfMotion,
			"phases":     result.Sequence.Phases,
			"directives": result.Directives,
			"warnings":   result.Warnings,
			"graph":      result.Graph,
		}
		if runID != "" {
			out["run_id"] = runID
		}
		return printJSON(out)
	}

	fmt.Printf("mission %s (%s)\n\n", cfg.Mission.Name, cfg.Mission.EquationsOfMotion)

	fmt.Println("phases:")
	for _, p := range result.Sequence.Phases {
		tag := "ode"
		if p.Analytic {
			tag = "analytic"
		}
		fmt.Printf("  %-20s %-8s %s\n", p.Name, p.Group, tag)
	}

	fmt.Println("\ndirectives:")
	for _, d := range result.Directives {
		fmt.Printf("  %s -> %s: %s (%d states)\n", d.From, d.To, d.Kind, len(d.Links))
	}

	if len(result.Warnings) > 0 {
		fmt.Println("\nwarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}

	if runID != "" {
		fmt.Printf("\nrun recorded: %s\n", runID)
	}

	return nil
}
