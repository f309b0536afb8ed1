package mission

import (
	"testing"
)

func twoDOFDescs(names []string, reserve map[string]bool) []PhaseDesc {
	descs := make([]PhaseDesc, len(names))
	for i, n := range names {
		descs[i] = PhaseDesc{
			Name:    n,
			Options: Options{Reserve: reserve[n]},
		}
	}
	return descs
}

func TestClassify_TwoDOFScenario(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, twoDOFDescs(
		[]string{"climb1", "cruise", "desc1", "reserve_cruise"},
		map[string]bool{"reserve_cruise": true},
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	if err := seq.Classify(); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	wantGroups := []PhaseGroup{GroupRegular, GroupRegular, GroupRegular, GroupReserve}
	wantAnalytic := []bool{false, true, false, true}

	for i, p := range seq.Phases {
		if p.Group != wantGroups[i] {
			t.Errorf("phase %s: expected group %s, got %s", p.Name, wantGroups[i], p.Group)
		}
		if p.Analytic != wantAnalytic[i] {
			t.Errorf("phase %s: expected analytic=%v, got %v", p.Name, wantAnalytic[i], p.Analytic)
		}
	}

	if idx := seq.BoundaryIndex(); idx != 2 {
		t.Errorf("expected boundary index 2, got %d", idx)
	}
	if seq.Stage() != StageClassified {
		t.Errorf("expected stage classified, got %s", seq.Stage())
	}
}

func TestClassify_HeightEnergy_NeverAnalytic(t *testing.T) {
	bounds := &Bounds{Lower: 10, Upper: 120, Unit: "min"}
	descs := []PhaseDesc{
		{Name: "climb", Options: Options{DurationBounds: bounds}},
		{Name: "cruise", Options: Options{DurationBounds: bounds}},
		{Name: "reserve_cruise", Options: Options{Reserve: true, DurationBounds: bounds}},
	}

	seq, err := NewSequence(EOMHeightEnergy, descs)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}
	if err := seq.Classify(); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	for _, p := range seq.Phases {
		if p.Analytic {
			t.Errorf("phase %s: height-energy phases must not be analytic", p.Name)
		}
	}
}

func TestClassify_HeightEnergy_ReserveNameWithoutKeyword(t *testing.T) {
	bounds := &Bounds{Lower: 10, Upper: 60, Unit: "min"}
	seq, err := NewSequence(EOMHeightEnergy, []PhaseDesc{
		{Name: "main", Options: Options{DurationBounds: bounds}},
		{Name: "reserve_extra", Options: Options{Reserve: true, DurationBounds: bounds}},
	})
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	// The keyword requirement only applies to the two-degree-of-freedom family.
	if err := seq.Classify(); err != nil {
		t.Fatalf("expected no error for height-energy reserve naming, got: %v", err)
	}
}

func TestClassify_HeightEnergy_MultiKeywordNames(t *testing.T) {
	bounds := &Bounds{Lower: 10, Upper: 120, Unit: "min"}
	seq, err := NewSequence(EOMHeightEnergy, []PhaseDesc{
		{Name: "climb1_then_cruise", Options: Options{DurationBounds: bounds}},
		{Name: "reserve_desc1_cruise", Options: Options{Reserve: true, DurationBounds: bounds}},
	})
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	// Under height-energy the kind has no effect, so names matching several
	// keywords classify fine and every phase stays non-analytic.
	if err := seq.Classify(); err != nil {
		t.Fatalf("expected no error for height-energy multi-keyword names, got: %v", err)
	}

	for _, p := range seq.Phases {
		if p.Analytic {
			t.Errorf("phase %s: height-energy phases must not be analytic", p.Name)
		}
		if p.Kind != KindUnknown {
			t.Errorf("phase %s: expected unknown kind for ambiguous name, got %q", p.Name, p.Kind)
		}
	}

	if idx := seq.BoundaryIndex(); idx != 0 {
		t.Errorf("expected boundary index 0, got %d", idx)
	}
}

func TestClassify_TwoDOF_ReserveNameWithoutKeyword(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, twoDOFDescs(
		[]string{"cruise", "reserve_extra"},
		map[string]bool{"reserve_extra": true},
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	err = seq.Classify()
	if err == nil {
		t.Fatal("expected unresolved-phase-type error, got nil")
	}
	if !HasCode(err, ErrCodeUnresolvedPhaseType) {
		t.Errorf("expected code %s, got: %v", ErrCodeUnresolvedPhaseType, err)
	}
	if !IsUserInput(err) {
		t.Errorf("expected user-input classification, got: %v", err)
	}
}

func TestClassify_TwoDOF_RegularNameWithoutKeyword(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, twoDOFDescs(
		[]string{"taxi", "cruise"}, nil,
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	// Regular phases do not require a keyword; the kind simply stays unknown.
	if err := seq.Classify(); err != nil {
		t.Fatalf("expected no error for regular phase without keyword, got: %v", err)
	}
	if p := seq.Phase("taxi"); p.Kind != KindUnknown || p.Analytic {
		t.Errorf("expected unknown non-analytic kind for taxi, got kind=%q analytic=%v", p.Kind, p.Analytic)
	}
}

func TestClassify_AmbiguousKeyword(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, twoDOFDescs(
		[]string{"cruise", "reserve_climb1_to_cruise"},
		map[string]bool{"reserve_climb1_to_cruise": true},
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	err = seq.Classify()
	if err == nil {
		t.Fatal("expected unresolved-phase-type error for ambiguous name, got nil")
	}
	if !HasCode(err, ErrCodeUnresolvedPhaseType) {
		t.Errorf("expected code %s, got: %v", ErrCodeUnresolvedPhaseType, err)
	}
}

func TestClassify_OrderingViolation(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, twoDOFDescs(
		[]string{"reserve_cruise", "climb1"},
		map[string]bool{"reserve_cruise": true},
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	err = seq.Classify()
	if err == nil {
		t.Fatal("expected phase-ordering error, got nil")
	}
	if !HasCode(err, ErrCodePhaseOrdering) {
		t.Errorf("expected code %s, got: %v", ErrCodePhaseOrdering, err)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, twoDOFDescs(
		[]string{"climb1", "cruise"}, nil,
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	if err := seq.Classify(); err != nil {
		t.Fatalf("first Classify failed: %v", err)
	}
	if err := seq.Classify(); err != nil {
		t.Fatalf("second Classify failed: %v", err)
	}
	if seq.Stage() != StageClassified {
		t.Errorf("expected stage classified, got %s", seq.Stage())
	}
}

func TestClassify_NoReservePhases(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, twoDOFDescs(
		[]string{"climb1", "cruise", "desc1"}, nil,
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}
	if err := seq.Classify(); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if idx := seq.BoundaryIndex(); idx != -1 {
		t.Errorf("expected no boundary (-1), got %d", idx)
	}
}

func TestClassify_Shooting_SameRuleAsCollocation(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFShooting, twoDOFDescs(
		[]string{"climb1", "cruise"}, nil,
	))
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}
	if err := seq.Classify(); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if !seq.Phase("cruise").Analytic {
		t.Error("expected cruise to be analytic under two-DOF shooting")
	}
	if seq.Phase("climb1").Analytic {
		t.Error("expected climb1 to be non-analytic under two-DOF shooting")
	}
}

func TestResolvePhaseKind(t *testing.T) {
	tests := []struct {
		name    string
		matches int
	}{
		{"climb1", 1},
		{"reserve_cruise", 1},
		{"reserve_desc2", 1},
		{"taxi", 0},
		{"climb1_then_cruise", 2},
	}

	for _, tt := range tests {
		got := ResolvePhaseKind(tt.name)
		if len(got) != tt.matches {
			t.Errorf("ResolvePhaseKind(%q): expected %d matches, got %d (%v)",
				tt.name, tt.matches, len(got), got)
		}
	}
}
