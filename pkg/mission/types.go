package mission

import (
	"fmt"
	"strings"
)

// EOM identifies the equations-of-motion family governing phase dynamics.
type EOM string

const (
	// EOMHeightEnergy is the height-energy approximation. Every phase of this
	// family integrates an ODE; no phase is analytic.
	EOMHeightEnergy EOM = "height_energy"

	// EOMTwoDOFCollocation is the two-degree-of-freedom family solved by collocation.
	EOMTwoDOFCollocation EOM = "two_degree_of_freedom"

	// EOMTwoDOFShooting is the two-degree-of-freedom family solved by forward
	// shooting. Classification follows the same rules as collocation.
	EOMTwoDOFShooting EOM = "two_degree_of_freedom_shooting"
)

// Validate checks that the EOM value is one of the known families.
func (e EOM) Validate() error {
	switch e {
	case EOMHeightEnergy, EOMTwoDOFCollocation, EOMTwoDOFShooting:
		return nil
	default:
		return NewMalformedPhaseError(fmt.Sprintf("unknown equations-of-motion family: %q", string(e)))
	}
}

// IsTwoDOF returns true for both two-degree-of-freedom variants.
func (e EOM) IsTwoDOF() bool {
	return e == EOMTwoDOFCollocation || e == EOMTwoDOFShooting
}

// PhaseGroup partitions phases into the primary mission and post-mission reserves.
type PhaseGroup string

const (
	// GroupUnclassified is the zero value before the classifier has run.
	GroupUnclassified PhaseGroup = ""

	// GroupRegular marks a phase belonging to the primary mission.
	GroupRegular PhaseGroup = "regular"

	// GroupReserve marks a contingency phase flown after the primary mission.
	GroupReserve PhaseGroup = "reserve"
)

// PhaseKind is the resolved phase-type keyword. Under the two-degree-of-freedom
// family the kind selects the equations-of-motion variant for reserve phases and
// determines whether the phase is analytic.
type PhaseKind string

const (
	// KindUnknown means the phase name contains no recognized keyword.
	KindUnknown PhaseKind = ""

	KindAccel  PhaseKind = "accel"
	KindAscent PhaseKind = "ascent"
	KindClimb1 PhaseKind = "climb1"
	KindClimb2 PhaseKind = "climb2"
	KindCruise PhaseKind = "cruise"
	KindDesc1  PhaseKind = "desc1"
	KindDesc2  PhaseKind = "desc2"
)

// phaseKinds is the fixed keyword vocabulary, matched by substring against
// phase names. Order is not a precedence: a name matching more than one
// keyword is ambiguous and rejected, never tie-broken.
var phaseKinds = []PhaseKind{
	KindAccel, KindAscent, KindClimb1, KindClimb2, KindCruise, KindDesc1, KindDesc2,
}

// ResolvePhaseKind matches a phase name against the fixed keyword vocabulary.
// It returns the matched kinds; zero matches means the name carries no phase-type
// keyword, and more than one match means the name is ambiguous.
func ResolvePhaseKind(name string) []PhaseKind {
	var matches []PhaseKind
	for _, k := range phaseKinds {
		if strings.Contains(name, string(k)) {
			matches = append(matches, k)
		}
	}
	return matches
}

// Quantity is a scalar with an engineering unit, mirroring the unit-tagged
// option values of the mission description format.
type Quantity struct {
	// Value is the scalar magnitude.
	Value float64 `json:"value" yaml:"value"`

	// Unit is the engineering unit string (e.g. "min", "NM", "lbm").
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// String formats the quantity for logs and reports.
func (q Quantity) String() string {
	if q.Unit == "" {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// Bounds is a closed interval constraint handed to the solver.
type Bounds struct {
	// Lower is the lower bound.
	Lower float64 `json:"lower" yaml:"lower"`

	// Upper is the upper bound.
	Upper float64 `json:"upper" yaml:"upper"`

	// Unit is the engineering unit shared by both bounds.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Singleton returns true when the bounds pin a single value.
func (b Bounds) Singleton() bool {
	return b.Lower == b.Upper
}

// Options holds the user-authored options of one phase plus the fields the
// target resolver rewrites. A phase has at most one of TargetDuration /
// TargetDistance; both set is a conflicting-target error.
type Options struct {
	// Reserve marks the phase as a post-mission contingency phase.
	Reserve bool `json:"reserve,omitempty" yaml:"reserve,omitempty"`

	// TargetDuration fixes the phase's time extent when set.
	TargetDuration *Quantity `json:"target_duration,omitempty" yaml:"target_duration,omitempty"`

	// TargetDistance fixes the phase's distance extent when set.
	TargetDistance *Quantity `json:"target_distance,omitempty" yaml:"target_distance,omitempty"`

	// DurationBounds constrains the phase's time extent.
	DurationBounds *Bounds `json:"duration_bounds,omitempty" yaml:"duration_bounds,omitempty"`

	// FixedDuration tells the solver the time extent is not a design variable.
	FixedDuration bool `json:"fixed_duration,omitempty" yaml:"fixed_duration,omitempty"`

	// DistanceBounds constrains the phase's distance extent.
	DistanceBounds *Bounds `json:"distance_bounds,omitempty" yaml:"distance_bounds,omitempty"`

	// FixedDistance tells the solver the distance extent is not a design variable.
	FixedDistance bool `json:"fixed_distance,omitempty" yaml:"fixed_distance,omitempty"`

	// TimeGuess is the initial guess for the phase's time extent.
	TimeGuess *Quantity `json:"time_guess,omitempty" yaml:"time_guess,omitempty"`

	// DistanceGuess is the initial guess for the phase's distance extent.
	DistanceGuess *Quantity `json:"distance_guess,omitempty" yaml:"distance_guess,omitempty"`

	// UnlinkedStates lists state variables this phase opts out of continuity
	// linking with its successor.
	UnlinkedStates []StateVar `json:"unlinked_states,omitempty" yaml:"unlinked_states,omitempty"`
}

// Clone returns a deep copy of the options. The target resolver operates on a
// copy so the rewrite stays a pure transformation of the input.
func (o Options) Clone() Options {
	c := o
	if o.TargetDuration != nil {
		q := *o.TargetDuration
		c.TargetDuration = &q
	}
	if o.TargetDistance != nil {
		q := *o.TargetDistance
		c.TargetDistance = &q
	}
	if o.DurationBounds != nil {
		b := *o.DurationBounds
		c.DurationBounds = &b
	}
	if o.DistanceBounds != nil {
		b := *o.DistanceBounds
		c.DistanceBounds = &b
	}
	if o.TimeGuess != nil {
		q := *o.TimeGuess
		c.TimeGuess = &q
	}
	if o.DistanceGuess != nil {
		q := *o.DistanceGuess
		c.DistanceGuess = &q
	}
	if o.UnlinkedStates != nil {
		c.UnlinkedStates = append([]StateVar(nil), o.UnlinkedStates...)
	}
	return c
}

// Phase is one trajectory segment of the mission. Instances are built once by
// the descriptor store, annotated in place by the classifier, rewritten by the
// target resolver, and read-only thereafter.
type Phase struct {
	// Name identifies the phase. For reserve phases under the
	// two-degree-of-freedom family it must embed a phase-type keyword.
	Name string `json:"name"`

	// Options are the phase options, post target resolution.
	Options Options `json:"options"`

	// Group is the derived regular/reserve partition. Set by the classifier.
	Group PhaseGroup `json:"group,omitempty"`

	// Kind is the resolved phase-type keyword, if any. Set by the classifier.
	Kind PhaseKind `json:"kind,omitempty"`

	// Analytic is true when the phase's state evolution is computed in closed
	// form rather than by numerical integration. Set by the classifier.
	Analytic bool `json:"analytic"`
}

// Classified reports whether the classifier has determined this phase's group.
func (p *Phase) Classified() bool {
	return p.Group == GroupRegular || p.Group == GroupReserve
}

// StateVars returns the state variables this phase exposes for continuity
// linking. Analytic phases carry only mass and cumulative range in their
// closed-form summary; ODE phases integrate the full state trace.
func (p *Phase) StateVars() []StateVar {
	if p.Analytic {
		return []StateVar{StateMass, StateRange}
	}
	return []StateVar{StateMass, StateRange, StateAltitude, StateVelocity, StateFlightPathAngle}
}

// Stage tracks pipeline progress over a phase sequence. Later stages require
// earlier stages to have completed.
type Stage int

const (
	// StageRaw is the state after descriptor-store construction.
	StageRaw Stage = iota

	// StageClassified is the state after group/analytic annotation.
	StageClassified

	// StageResolved is the state after target resolution.
	StageResolved

	// StageLinked is the state after continuity linking.
	StageLinked
)

// String returns the stage name used in precondition errors and logs.
func (s Stage) String() string {
	switch s {
	case StageRaw:
		return "raw"
	case StageClassified:
		return "classified"
	case StageResolved:
		return "resolved"
	case StageLinked:
		return "linked"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Warning is a non-fatal finding surfaced to the user, never suppressed.
// The only source today is the target resolver discarding user-supplied fields
// overwritten by an authoritative target.
type Warning struct {
	// Phase is the phase the warning applies to.
	Phase string `json:"phase"`

	// Field is the option field that was discarded or adjusted.
	Field string `json:"field,omitempty"`

	// Message is the human-readable warning text.
	Message string `json:"message"`
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Field != "" {
		return fmt.Sprintf("phase %s: %s: %s", w.Phase, w.Field, w.Message)
	}
	return fmt.Sprintf("phase %s: %s", w.Phase, w.Message)
}
