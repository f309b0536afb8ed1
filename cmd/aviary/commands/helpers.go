package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/superlil27/Aviary/pkg/config"
	"github.com/superlil27/Aviary/pkg/mission"
	"github.com/superlil27/Aviary/pkg/policy"
	"github.com/superlil27/Aviary/pkg/stores"
	"github.com/superlil27/Aviary/pkg/telemetry"
)

// newTelemetry builds the telemetry stack from the global flags. Tracing
// stays disabled unless a command opts in; metrics are enabled when a listen
// address is given; structured logging always runs.
func newTelemetry(version, metricsAddr string) (*telemetry.Telemetry, error) {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = version
	if verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Format = "console"
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddress = metricsAddr
	}
	return telemetry.NewTelemetry(cfg)
}

// loadMission reads and validates a mission description file.
func loadMission(ctx context.Context, path string) (*config.MissionConfig, error) {
	loader := config.NewLoader(log.Logger)
	return loader.Load(ctx, path)
}

// evaluatePolicies runs the mission through the policy engine, logging and
// counting any violations. It returns an error when an enforcing-mode
// violation blocks the operation.
func evaluatePolicies(ctx context.Context, tel *telemetry.Telemetry, cfg *config.MissionConfig, operation string) error {
	mode := policy.Mode(policyMode)
	if mode != policy.ModeAdvisory && mode != policy.ModeEnforcing {
		return fmt.Errorf("unknown policy mode %q (want advisory or enforcing)", policyMode)
	}

	engine, err := policy.NewEngine(log.Logger, mode)
	if err != nil {
		return err
	}
	if len(policyDirs) > 0 {
		if err := engine.LoadPolicies(ctx, policyDirs); err != nil {
			return err
		}
	}

	phases := make([]*mission.Phase, len(cfg.Phases))
	for i, entry := range cfg.Phases {
		phases[i] = &mission.Phase{Name: entry.Name, Options: entry.Options}
	}

	result, err := engine.EvaluateMission(ctx, &policy.MissionInput{
		Name:              cfg.Mission.Name,
		EquationsOfMotion: string(cfg.Mission.EquationsOfMotion),
		ReserveFuel: policy.ReserveFuelInput{
			Additional: cfg.Mission.ReserveFuel.Additional,
			Fraction:   cfg.Mission.ReserveFuel.Fraction,
		},
		Phases: phases,
	}, operation)
	if err != nil {
		return err
	}

	for _, v := range result.Violations {
		event := log.Warn()
		if v.Severity == policy.SeverityError {
			event = log.Error()
		}
		event.Str("policy", v.Policy).Str("phase", v.Phase).Msg(v.Message)
		tel.Metrics.RecordPolicyViolation(v.Policy, string(v.Severity))
	}

	if !result.Allowed {
		return fmt.Errorf("mission blocked by policy: %d violation(s) in enforcing mode", len(result.Violations))
	}

	return nil
}

// openStore opens and migrates the run database named by --state. Callers
// must Close the returned store.
func openStore(ctx context.Context) (*stores.SQLiteStore, error) {
	store, err := stores.NewSQLiteStore(stores.Config{Path: statePath})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
