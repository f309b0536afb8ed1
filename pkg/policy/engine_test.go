package policy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/superlil27/Aviary/pkg/mission"
)

func newTestEngine(t *testing.T, mode Mode) *Engine {
	t.Helper()
	e, err := NewEngine(zerolog.Nop(), mode)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

func cleanMission() *MissionInput {
	return &MissionInput{
		Name:              "baseline",
		EquationsOfMotion: "two_degree_of_freedom",
		ReserveFuel:       ReserveFuelInput{Additional: 300, Fraction: 0.05},
		Phases: []*mission.Phase{
			{Name: "climb1", Options: mission.Options{
				DurationBounds: &mission.Bounds{Lower: 5, Upper: 50, Unit: "min"},
			}},
			{Name: "cruise", Options: mission.Options{
				TargetDistance: &mission.Quantity{Value: 2000, Unit: "NM"},
			}},
			{Name: "reserve_cruise", Options: mission.Options{
				Reserve:        true,
				TargetDuration: &mission.Quantity{Value: 30, Unit: "min"},
			}},
		},
	}
}

func TestEngine_BuiltinsLoaded(t *testing.T) {
	e := newTestEngine(t, ModeAdvisory)

	if len(e.ListPolicies()) < 4 {
		t.Errorf("expected at least 4 built-in policies, got %d", len(e.ListPolicies()))
	}

	for _, name := range []string{"reserve-fuel-margin", "phase-naming", "extent-sanity", "mission-shape"} {
		if _, err := e.GetPolicy(name); err != nil {
			t.Errorf("expected built-in policy %q, got: %v", name, err)
		}
	}
}

func TestEvaluateMission_CleanMission(t *testing.T) {
	e := newTestEngine(t, ModeEnforcing)

	result, err := e.EvaluateMission(context.Background(), cleanMission(), "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}

	if !result.Allowed {
		t.Error("expected clean mission to be allowed")
	}
	if len(result.Violations) != 0 {
		t.Errorf("expected no violations, got %d: %+v", len(result.Violations), result.Violations)
	}
	if len(result.EvaluatedPolicies) < 4 {
		t.Errorf("expected all built-in policies evaluated, got %v", result.EvaluatedPolicies)
	}
}

func TestEvaluateMission_ExtentViolation(t *testing.T) {
	m := cleanMission()
	m.Phases[1].Options.TargetDistance = &mission.Quantity{Value: -100, Unit: "NM"}

	enforcing := newTestEngine(t, ModeEnforcing)
	result, err := enforcing.EvaluateMission(context.Background(), m, "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}
	if result.Allowed {
		t.Error("expected error-severity violation to block in enforcing mode")
	}

	found := false
	for _, v := range result.Violations {
		if v.Policy == "extent-sanity" && v.Phase == "cruise" && v.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected extent-sanity violation for cruise, got %+v", result.Violations)
	}

	advisory := newTestEngine(t, ModeAdvisory)
	result, err = advisory.EvaluateMission(context.Background(), m, "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}
	if !result.Allowed {
		t.Error("expected advisory mode to surface but not block")
	}
}

func TestEvaluateMission_NamingWarning(t *testing.T) {
	m := cleanMission()
	m.Phases[0].Name = "Climb-One"

	e := newTestEngine(t, ModeEnforcing)
	result, err := e.EvaluateMission(context.Background(), m, "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}

	if !result.Allowed {
		t.Error("warning-severity violations must not block, even in enforcing mode")
	}

	found := false
	for _, v := range result.Violations {
		if v.Policy == "phase-naming" && v.Phase == "Climb-One" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected phase-naming violation, got %+v", result.Violations)
	}
}

func TestEvaluateMission_NoReserveMargin(t *testing.T) {
	m := cleanMission()
	m.ReserveFuel = ReserveFuelInput{}
	m.Phases = m.Phases[:2] // drop the reserve phase

	e := newTestEngine(t, ModeAdvisory)
	result, err := e.EvaluateMission(context.Background(), m, "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}

	found := false
	for _, v := range result.Violations {
		if v.Policy == "reserve-fuel-margin" && v.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected reserve-fuel-margin warning, got %+v", result.Violations)
	}
}

func TestEvaluateMission_MissionShape(t *testing.T) {
	m := &MissionInput{
		Name:              "reserves-only",
		EquationsOfMotion: "height_energy",
		ReserveFuel:       ReserveFuelInput{Additional: 100},
		Phases: []*mission.Phase{
			{Name: "reserve_hold", Options: mission.Options{
				Reserve:        true,
				TargetDuration: &mission.Quantity{Value: 45, Unit: "min"},
			}},
		},
	}

	e := newTestEngine(t, ModeAdvisory)
	result, err := e.EvaluateMission(context.Background(), m, "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}

	var policies []string
	for _, v := range result.Violations {
		if v.Policy == "mission-shape" {
			policies = append(policies, v.Message)
		}
	}
	// No cruise phase and all-reserve both fire.
	if len(policies) != 2 {
		t.Errorf("expected 2 mission-shape findings, got %d: %v", len(policies), policies)
	}
}

func TestEnableDisablePolicy(t *testing.T) {
	e := newTestEngine(t, ModeAdvisory)

	if err := e.DisablePolicy("mission-shape"); err != nil {
		t.Fatalf("DisablePolicy failed: %v", err)
	}

	m := cleanMission()
	m.Phases = m.Phases[:1] // no cruise phase left

	result, err := e.EvaluateMission(context.Background(), m, "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}
	for _, v := range result.Violations {
		if v.Policy == "mission-shape" {
			t.Error("disabled policy must not produce violations")
		}
	}

	if err := e.EnablePolicy("mission-shape"); err != nil {
		t.Fatalf("EnablePolicy failed: %v", err)
	}
	result, err = e.EvaluateMission(context.Background(), m, "validate")
	if err != nil {
		t.Fatalf("EvaluateMission failed: %v", err)
	}
	found := false
	for _, v := range result.Violations {
		if v.Policy == "mission-shape" {
			found = true
		}
	}
	if !found {
		t.Error("re-enabled policy must produce violations again")
	}

	if err := e.DisablePolicy("no-such-policy"); err == nil {
		t.Error("expected error for unknown policy name")
	}
}
