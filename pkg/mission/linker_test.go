package mission

import (
	"testing"
)

func linkedSequence(t *testing.T, eom EOM, descs []PhaseDesc) (*Sequence, []Directive) {
	t.Helper()
	seq, err := NewSequence(eom, descs)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}
	if err := seq.Classify(); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if _, err := seq.ResolveTargets(); err != nil {
		t.Fatalf("ResolveTargets failed: %v", err)
	}
	directives, err := seq.Link()
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	return seq, directives
}

func TestLink_PartialDirectiveAtBoundary(t *testing.T) {
	seq, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1"},
		{Name: "cruise"},
		{Name: "desc1"},
		{Name: "reserve_cruise", Options: Options{Reserve: true}},
	})

	if len(directives) != 3 {
		t.Fatalf("expected 3 directives for 4 phases, got %d", len(directives))
	}

	partials := 0
	for i, d := range directives {
		if d.Kind == LinkPartial {
			partials++
			if i != seq.BoundaryIndex() {
				t.Errorf("partial directive at index %d, expected boundary index %d", i, seq.BoundaryIndex())
			}
		}
	}
	if partials != 1 {
		t.Fatalf("expected exactly 1 partial directive, got %d", partials)
	}

	boundary := directives[seq.BoundaryIndex()]
	if boundary.From != "desc1" || boundary.To != "reserve_cruise" {
		t.Errorf("boundary directive links %s->%s, expected desc1->reserve_cruise", boundary.From, boundary.To)
	}
	if len(boundary.Links) != 2 {
		t.Fatalf("partial directive must link exactly {mass, range}, got %d links", len(boundary.Links))
	}
	if boundary.Links[0].Var != StateMass || boundary.Links[1].Var != StateRange {
		t.Errorf("partial directive links %v, expected [mass range]",
			[]StateVar{boundary.Links[0].Var, boundary.Links[1].Var})
	}
}

func TestLink_NoReserve_AllFull(t *testing.T) {
	_, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1"},
		{Name: "cruise"},
		{Name: "desc1"},
	})

	if len(directives) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(directives))
	}
	for _, d := range directives {
		if d.Kind != LinkFull {
			t.Errorf("directive %s->%s: expected full continuity, got %s", d.From, d.To, d.Kind)
		}
	}
}

func TestLink_AllReserve_NoBoundary(t *testing.T) {
	_, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "reserve_climb1", Options: Options{Reserve: true}},
		{Name: "reserve_cruise", Options: Options{Reserve: true}},
	})

	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	if directives[0].Kind != LinkFull {
		t.Errorf("reserve-internal pair must use full continuity, got %s", directives[0].Kind)
	}
}

func TestLink_AnalyticEndpointNaming(t *testing.T) {
	_, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1"},
		{Name: "cruise"},
	})

	d := directives[0]
	var massLink *StateLink
	for i := range d.Links {
		if d.Links[i].Var == StateMass {
			massLink = &d.Links[i]
		}
	}
	if massLink == nil {
		t.Fatal("expected a mass link between climb1 and cruise")
	}

	// climb1 integrates an ODE: terminal mass lives at the end of the trace.
	if got, want := massLink.From.Path(), "climb1.states:mass[-1]"; got != want {
		t.Errorf("ODE terminal ref: got %q, want %q", got, want)
	}
	// cruise is analytic: initial mass is a closed-form summary scalar.
	if got, want := massLink.To.Path(), "cruise.mass_initial"; got != want {
		t.Errorf("analytic initial ref: got %q, want %q", got, want)
	}
}

func TestLink_FullContinuity_ODEPair_AllStates(t *testing.T) {
	_, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1"},
		{Name: "climb2"},
	})

	if len(directives[0].Links) != 5 {
		t.Errorf("ODE-ODE full continuity must link all 5 states, got %d", len(directives[0].Links))
	}
}

func TestLink_FullContinuity_AnalyticEndpoint_Intersection(t *testing.T) {
	_, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1"},
		{Name: "cruise"},
	})

	// The analytic cruise only exposes mass and range; the full directive
	// links the intersection.
	if len(directives[0].Links) != 2 {
		t.Errorf("ODE-analytic full continuity must link {mass, range}, got %d links", len(directives[0].Links))
	}
}

func TestLink_UnlinkedStatesOptOut(t *testing.T) {
	_, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1", Options: Options{UnlinkedStates: []StateVar{StateFlightPathAngle}}},
		{Name: "climb2"},
	})

	for _, l := range directives[0].Links {
		if l.Var == StateFlightPathAngle {
			t.Error("flight_path_angle was opted out but still linked")
		}
	}
	if len(directives[0].Links) != 4 {
		t.Errorf("expected 4 links after opt-out, got %d", len(directives[0].Links))
	}
}

func TestLink_RequiresResolvedSequence(t *testing.T) {
	seq, err := NewSequence(EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1"},
		{Name: "cruise"},
	})
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	if _, err := seq.Link(); err == nil || !HasCode(err, ErrCodePrecondition) {
		t.Errorf("Link on raw sequence: expected precondition error, got: %v", err)
	}

	if err := seq.Classify(); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if _, err := seq.Link(); err == nil || !HasCode(err, ErrCodePrecondition) {
		t.Errorf("Link on classified-only sequence: expected precondition error, got: %v", err)
	}
}

func TestLink_UnlinkableBoundary(t *testing.T) {
	// Hand-built sequence whose stage claims resolution but whose phases were
	// never classified; the linker must refuse rather than assume defaults.
	seq := &Sequence{
		EOM: EOMTwoDOFCollocation,
		Phases: []*Phase{
			{Name: "climb1"},
			{Name: "cruise"},
		},
		stage: StageResolved,
	}

	_, err := seq.Link()
	if err == nil {
		t.Fatal("expected unlinkable-boundary error, got nil")
	}
	if !HasCode(err, ErrCodeUnlinkableBoundary) {
		t.Errorf("expected code %s, got: %v", ErrCodeUnlinkableBoundary, err)
	}
	if !IsInternal(err) {
		t.Errorf("expected internal classification, got: %v", err)
	}
}

func TestGraph_Report(t *testing.T) {
	seq, directives := linkedSequence(t, EOMTwoDOFCollocation, []PhaseDesc{
		{Name: "climb1"},
		{Name: "cruise"},
		{Name: "reserve_cruise", Options: Options{Reserve: true}},
	})

	g := seq.Graph(directives)
	if len(g.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(g.Edges))
	}
	if g.BoundaryIndex != 1 {
		t.Errorf("expected boundary index 1, got %d", g.BoundaryIndex)
	}
}

func TestVarRef_Paths(t *testing.T) {
	tests := []struct {
		ref  VarRef
		want string
	}{
		{VarRef{Phase: "cruise", Var: StateMass, Boundary: BoundaryFinal, Analytic: true}, "cruise.mass_final"},
		{VarRef{Phase: "cruise", Var: StateRange, Boundary: BoundaryInitial, Analytic: true}, "cruise.range_initial"},
		{VarRef{Phase: "climb1", Var: StateMass, Boundary: BoundaryFinal}, "climb1.states:mass[-1]"},
		{VarRef{Phase: "desc1", Var: StateAltitude, Boundary: BoundaryInitial}, "desc1.states:altitude[0]"},
	}

	for _, tt := range tests {
		if got := tt.ref.Path(); got != tt.want {
			t.Errorf("Path(%+v): got %q, want %q", tt.ref, got, tt.want)
		}
	}
}
