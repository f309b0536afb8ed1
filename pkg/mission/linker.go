package mission

import (
	"fmt"
)

// StateVar identifies a trajectory state variable subject to continuity linking.
type StateVar string

const (
	// StateMass is the vehicle mass.
	StateMass StateVar = "mass"

	// StateRange is the cumulative range flown since the start of the mission.
	StateRange StateVar = "range"

	// StateAltitude is the geometric altitude.
	StateAltitude StateVar = "altitude"

	// StateVelocity is the true airspeed.
	StateVelocity StateVar = "velocity"

	// StateFlightPathAngle is the flight-path angle.
	StateFlightPathAngle StateVar = "flight_path_angle"
)

// Validate checks that the state variable is one of the known states.
func (v StateVar) Validate() error {
	switch v {
	case StateMass, StateRange, StateAltitude, StateVelocity, StateFlightPathAngle:
		return nil
	default:
		return fmt.Errorf("unknown state variable: %q", string(v))
	}
}

// boundaryStates are the only quantities carried across the regular->reserve
// boundary. Everything else is left solver-free on the reserve side.
var boundaryStates = []StateVar{StateMass, StateRange}

// Boundary identifies which end of a phase a variable reference addresses.
type Boundary string

const (
	// BoundaryInitial addresses the value at the start of the phase.
	BoundaryInitial Boundary = "initial"

	// BoundaryFinal addresses the value at the end of the phase.
	BoundaryFinal Boundary = "final"
)

// VarRef is a resolved reference to one state quantity at one end of one
// phase. The solver-variable path differs between analytic and ODE phases:
// an analytic phase exposes scalar summary outputs, an ODE phase exposes an
// integrated state trace indexed at its first or last node.
type VarRef struct {
	// Phase is the phase name.
	Phase string `json:"phase"`

	// Var is the state variable.
	Var StateVar `json:"var"`

	// Boundary selects the initial or final value.
	Boundary Boundary `json:"boundary"`

	// Analytic records which naming convention Path follows.
	Analytic bool `json:"analytic"`
}

// Path returns the solver variable path for this reference.
func (r VarRef) Path() string {
	if r.Analytic {
		return fmt.Sprintf("%s.%s_%s", r.Phase, r.Var, r.Boundary)
	}
	idx := "0"
	if r.Boundary == BoundaryFinal {
		idx = "-1"
	}
	return fmt.Sprintf("%s.states:%s[%s]", r.Phase, r.Var, idx)
}

// LinkKind distinguishes the two continuity directive flavors.
type LinkKind string

const (
	// LinkFull carries every shared state variable across the pair.
	LinkFull LinkKind = "full"

	// LinkPartial carries only mass and cumulative range; emitted exactly once,
	// at the regular->reserve boundary.
	LinkPartial LinkKind = "partial"
)

// StateLink equates the terminal value of one state on the earlier phase with
// its initial value on the later phase.
type StateLink struct {
	// Var is the linked state variable.
	Var StateVar `json:"var"`

	// From is the terminal-value reference on the earlier phase.
	From VarRef `json:"from"`

	// To is the initial-value reference on the later phase.
	To VarRef `json:"to"`
}

// Directive is one continuity constraint between an adjacent phase pair,
// consumed by the solver's constraint-construction step.
type Directive struct {
	// From is the earlier phase name.
	From string `json:"from"`

	// To is the later phase name.
	To string `json:"to"`

	// Kind is full or partial continuity.
	Kind LinkKind `json:"kind"`

	// Links are the individual state equalities.
	Links []StateLink `json:"links"`
}

// Link builds the ordered continuity directive list, one directive per
// adjacent phase pair. Pairs internal to a group get full continuity over the
// state variables both endpoints expose, minus any states the earlier phase
// opts out of. The single pair crossing the regular->reserve boundary gets
// partial continuity over exactly mass and cumulative range. With no regular
// or no reserve phase there is no boundary pair and every directive is full.
//
// Requires target resolution to have run; the classifier's annotations are a
// precondition and are not re-derived here.
func (s *Sequence) Link() ([]Directive, error) {
	if s.stage < StageResolved {
		return nil, NewPreconditionError(
			"continuity linking requires a classified, target-resolved sequence").
			WithStage(s.stage.String())
	}

	boundary := s.BoundaryIndex()

	directives := make([]Directive, 0, len(s.Phases))
	for i := 0; i+1 < len(s.Phases); i++ {
		from, to := s.Phases[i], s.Phases[i+1]
		if !from.Classified() {
			return nil, NewUnlinkableBoundaryError(
				"linking endpoint has no determined classification").
				WithPhase(from.Name).
				WithStage(StageLinked.String())
		}
		if !to.Classified() {
			return nil, NewUnlinkableBoundaryError(
				"linking endpoint has no determined classification").
				WithPhase(to.Name).
				WithStage(StageLinked.String())
		}

		kind := LinkFull
		if i == boundary {
			kind = LinkPartial
		}
		directives = append(directives, linkPair(from, to, kind))
	}

	s.stage = StageLinked
	return directives, nil
}

// linkPair builds one directive for an adjacent pair, resolving each side's
// variable reference through its analytic flag.
func linkPair(from, to *Phase, kind LinkKind) Directive {
	var vars []StateVar
	if kind == LinkPartial {
		vars = boundaryStates
	} else {
		vars = sharedStates(from, to)
	}

	links := make([]StateLink, 0, len(vars))
	for _, v := range vars {
		links = append(links, StateLink{
			Var: v,
			From: VarRef{
				Phase:    from.Name,
				Var:      v,
				Boundary: BoundaryFinal,
				Analytic: from.Analytic,
			},
			To: VarRef{
				Phase:    to.Name,
				Var:      v,
				Boundary: BoundaryInitial,
				Analytic: to.Analytic,
			},
		})
	}

	return Directive{
		From:  from.Name,
		To:    to.Name,
		Kind:  kind,
		Links: links,
	}
}

// sharedStates returns the state variables exposed by both endpoints, minus
// the earlier phase's opt-outs, preserving canonical state order.
func sharedStates(from, to *Phase) []StateVar {
	toSet := make(map[StateVar]struct{}, len(to.StateVars()))
	for _, v := range to.StateVars() {
		toSet[v] = struct{}{}
	}
	skip := make(map[StateVar]struct{}, len(from.Options.UnlinkedStates))
	for _, v := range from.Options.UnlinkedStates {
		skip[v] = struct{}{}
	}

	var out []StateVar
	for _, v := range from.StateVars() {
		if _, ok := toSet[v]; !ok {
			continue
		}
		if _, ok := skip[v]; ok {
			continue
		}
		out = append(out, v)
	}
	return out
}

// LinkGraph is the report form of the linked sequence: phases as nodes,
// directives as edges, plus the regular->reserve boundary position.
type LinkGraph struct {
	// Nodes are the phase names in execution order.
	Nodes []string `json:"nodes"`

	// Edges are the continuity directives in boundary order.
	Edges []Directive `json:"edges"`

	// BoundaryIndex is the index of the last regular phase, or -1 when the
	// sequence has no regular->reserve boundary.
	BoundaryIndex int `json:"boundary_index"`
}

// Graph assembles the link graph report from a linked sequence and its
// directives.
func (s *Sequence) Graph(directives []Directive) *LinkGraph {
	return &LinkGraph{
		Nodes:         s.Names(),
		Edges:         directives,
		BoundaryIndex: s.BoundaryIndex(),
	}
}
