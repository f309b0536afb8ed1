package mission

import (
	"testing"
)

func TestNewSequence_PreservesOrder(t *testing.T) {
	names := []string{"climb1", "accel", "climb2", "cruise", "desc1", "desc2"}
	descs := make([]PhaseDesc, len(names))
	for i, n := range names {
		descs[i] = PhaseDesc{Name: n}
	}

	seq, err := NewSequence(EOMTwoDOFCollocation, descs)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	got := seq.Names()
	for i, n := range names {
		if got[i] != n {
			t.Errorf("position %d: expected %s, got %s", i, n, got[i])
		}
	}
	if seq.Stage() != StageRaw {
		t.Errorf("expected stage raw, got %s", seq.Stage())
	}
}

func TestNewSequence_EmptyMission(t *testing.T) {
	_, err := NewSequence(EOMTwoDOFCollocation, nil)
	if err == nil || !HasCode(err, ErrCodeMalformedPhase) {
		t.Errorf("expected malformed-phase error for empty mission, got: %v", err)
	}
}

func TestNewSequence_EmptyName(t *testing.T) {
	_, err := NewSequence(EOMTwoDOFCollocation, []PhaseDesc{{Name: ""}})
	if err == nil || !HasCode(err, ErrCodeMalformedPhase) {
		t.Errorf("expected malformed-phase error for empty name, got: %v", err)
	}
}

func TestNewSequence_DuplicateName(t *testing.T) {
	_, err := NewSequence(EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "cruise"},
		{Name: "cruise"},
	})
	if err == nil || !HasCode(err, ErrCodeMalformedPhase) {
		t.Errorf("expected malformed-phase error for duplicate name, got: %v", err)
	}
}

func TestNewSequence_UnknownEOM(t *testing.T) {
	_, err := NewSequence(EOM("three_dof"), []PhaseDesc{{Name: "cruise"}})
	if err == nil {
		t.Fatal("expected error for unknown equations-of-motion family, got nil")
	}
}

func TestNewSequence_HeightEnergyRequiresTimeExtent(t *testing.T) {
	_, err := NewSequence(EOMHeightEnergy, []PhaseDesc{{Name: "climb"}})
	if err == nil || !HasCode(err, ErrCodeMalformedPhase) {
		t.Errorf("expected malformed-phase error for missing time extent, got: %v", err)
	}

	// A duration target satisfies the requirement: it resolves to bounds.
	_, err = NewSequence(EOMHeightEnergy, []PhaseDesc{
		{Name: "climb", Options: Options{TargetDuration: &Quantity{Value: 20, Unit: "min"}}},
	})
	if err != nil {
		t.Errorf("target_duration should satisfy the time-extent requirement, got: %v", err)
	}
}

func TestNewSequence_InvertedBounds(t *testing.T) {
	_, err := NewSequence(EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "cruise", Options: Options{
			DurationBounds: &Bounds{Lower: 100, Upper: 10, Unit: "min"},
		}},
	})
	if err == nil || !HasCode(err, ErrCodeMalformedPhase) {
		t.Errorf("expected malformed-phase error for inverted bounds, got: %v", err)
	}
}

func TestNewSequence_UnknownUnlinkedState(t *testing.T) {
	_, err := NewSequence(EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "cruise", Options: Options{
			UnlinkedStates: []StateVar{StateVar("thrust")},
		}},
	})
	if err == nil || !HasCode(err, ErrCodeMalformedPhase) {
		t.Errorf("expected malformed-phase error for unknown state variable, got: %v", err)
	}
}

func TestNewSequence_CopiesOptions(t *testing.T) {
	target := &Quantity{Value: 30, Unit: "min"}
	descs := []PhaseDesc{
		{Name: "cruise", Options: Options{TargetDuration: target}},
	}

	seq, err := NewSequence(EOMTwoDOFCollocation, descs)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	target.Value = 999
	if seq.Phase("cruise").Options.TargetDuration.Value != 30 {
		t.Error("sequence must hold its own copy of the raw options")
	}
}
