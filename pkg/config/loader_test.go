package config

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/superlil27/Aviary/pkg/mission"
)

const sampleYAML = `
mission:
  name: transport-baseline
  equations_of_motion: two_degree_of_freedom
  reserve_fuel:
    additional: 300
    fraction: 0.05
phases:
  climb1:
    duration_bounds: {lower: 5, upper: 50, unit: min}
  cruise:
    target_distance: {value: 2000, unit: NM}
  desc1:
    duration_bounds: {lower: 5, upper: 50, unit: min}
  reserve_cruise:
    reserve: true
    target_duration: {value: 30, unit: min}
`

func newTestLoader() *Loader {
	return NewLoader(zerolog.Nop())
}

func TestParseYAML_PreservesPhaseOrder(t *testing.T) {
	cfg, err := newTestLoader().ParseYAML(context.Background(), []byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	want := []string{"climb1", "cruise", "desc1", "reserve_cruise"}
	got := cfg.Phases.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if cfg.Mission.Name != "transport-baseline" {
		t.Errorf("expected mission name transport-baseline, got %q", cfg.Mission.Name)
	}
	if cfg.Mission.ReserveFuel.Fraction != 0.05 {
		t.Errorf("expected reserve fraction 0.05, got %g", cfg.Mission.ReserveFuel.Fraction)
	}
}

func TestParseYAML_DecodesPhaseOptions(t *testing.T) {
	cfg, err := newTestLoader().ParseYAML(context.Background(), []byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	cruise := cfg.Phases[1]
	if cruise.Options.TargetDistance == nil {
		t.Fatal("expected cruise target_distance to be set")
	}
	if cruise.Options.TargetDistance.Value != 2000 || cruise.Options.TargetDistance.Unit != "NM" {
		t.Errorf("unexpected cruise target_distance: %+v", cruise.Options.TargetDistance)
	}

	reserve := cfg.Phases[3]
	if !reserve.Options.Reserve {
		t.Error("expected reserve_cruise to carry reserve: true")
	}
}

func TestParseYAML_RejectsUnknownTopLevelField(t *testing.T) {
	bad := sampleYAML + "\nextra_field: true\n"
	if _, err := newTestLoader().ParseYAML(context.Background(), []byte(bad)); err == nil {
		t.Fatal("expected error for unknown top-level field, got nil")
	}
}

func TestParseYAML_RejectsInvalidDescriptions(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"missing mission name",
			`
mission:
  equations_of_motion: height_energy
phases:
  climb1:
    target_duration: {value: 10, unit: min}
`,
		},
		{
			"unknown equations of motion",
			`
mission:
  name: m
  equations_of_motion: six_degree_of_freedom
phases:
  climb1:
    target_duration: {value: 10, unit: min}
`,
		},
		{
			"fraction above one",
			`
mission:
  name: m
  equations_of_motion: height_energy
  reserve_fuel:
    fraction: 1.5
phases:
  climb1:
    target_duration: {value: 10, unit: min}
`,
		},
		{
			"empty phases",
			`
mission:
  name: m
  equations_of_motion: height_energy
phases: {}
`,
		},
		{
			"phases as a list",
			`
mission:
  name: m
  equations_of_motion: height_energy
phases:
  - climb1
`,
		},
		{
			"unknown unlinked state",
			`
mission:
  name: m
  equations_of_motion: height_energy
phases:
  climb1:
    target_duration: {value: 10, unit: min}
    unlinked_states: [thrust]
`,
		},
	}

	loader := newTestLoader()
	for _, tt := range tests {
		if _, err := loader.ParseYAML(context.Background(), []byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestToSequence(t *testing.T) {
	cfg, err := newTestLoader().ParseYAML(context.Background(), []byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	seq, err := cfg.ToSequence()
	if err != nil {
		t.Fatalf("ToSequence failed: %v", err)
	}

	if seq.Stage() != mission.StageRaw {
		t.Errorf("expected a raw sequence, got stage %s", seq.Stage())
	}
	names := seq.Names()
	if len(names) != 4 || names[0] != "climb1" || names[3] != "reserve_cruise" {
		t.Errorf("unexpected sequence names: %v", names)
	}
}

const sampleStarlark = `
legs = 2

mission = {
    "mission": {
        "name": "multi-leg",
        "equations_of_motion": "two_degree_of_freedom",
        "reserve_fuel": {"additional": 150.0, "fraction": 0.03},
    },
    "phases": {},
}

mission["phases"]["climb1"] = {
    "duration_bounds": bounds(5.0, 50.0, "min"),
}
for i in range(legs):
    mission["phases"]["cruise_leg%d" % i] = {
        "target_distance": quantity(1000.0 * (i + 1), "NM"),
    }
mission["phases"]["desc1"] = {
    "duration_bounds": bounds(5.0, 50.0, "min"),
}
mission["phases"]["reserve_cruise"] = {
    "reserve": True,
    "target_duration": quantity(45.0, "min"),
}
`

func TestParseStarlark_GeneratesOrderedPhases(t *testing.T) {
	cfg, err := newTestLoader().ParseStarlark(context.Background(), []byte(sampleStarlark), nil)
	if err != nil {
		t.Fatalf("ParseStarlark failed: %v", err)
	}

	want := []string{"climb1", "cruise_leg0", "cruise_leg1", "desc1", "reserve_cruise"}
	got := cfg.Phases.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d phases, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	leg1 := cfg.Phases[2]
	if leg1.Options.TargetDistance == nil || leg1.Options.TargetDistance.Value != 2000 {
		t.Errorf("unexpected cruise_leg1 target_distance: %+v", leg1.Options.TargetDistance)
	}
}

func TestParseStarlark_InputGlobals(t *testing.T) {
	script := `
mission = {
    "mission": {"name": name, "equations_of_motion": "height_energy"},
    "phases": {
        "cruise": {"target_duration": quantity(duration_min, "min")},
    },
}
`
	cfg, err := newTestLoader().ParseStarlark(context.Background(), []byte(script), map[string]interface{}{
		"name":         "from-input",
		"duration_min": 90.0,
	})
	if err != nil {
		t.Fatalf("ParseStarlark failed: %v", err)
	}
	if cfg.Mission.Name != "from-input" {
		t.Errorf("expected mission name from-input, got %q", cfg.Mission.Name)
	}
	if cfg.Phases[0].Options.TargetDuration.Value != 90 {
		t.Errorf("expected target_duration 90, got %+v", cfg.Phases[0].Options.TargetDuration)
	}
}

func TestParseStarlark_MissingMissionGlobal(t *testing.T) {
	if _, err := newTestLoader().ParseStarlark(context.Background(), []byte(`x = 1`), nil); err == nil {
		t.Fatal("expected error for script without a mission global, got nil")
	}
}

func TestLoad_RejectsUnsupportedExtension(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), "mission.toml")
	if err == nil {
		t.Fatal("expected error for unsupported extension, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("unexpected error: %v", err)
	}
}
