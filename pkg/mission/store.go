package mission

import (
	"fmt"
)

// PhaseDesc is one entry of the raw, user-authored phase description:
// a phase name and its options, in authoring order.
type PhaseDesc struct {
	// Name is the phase name.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Options are the user-authored phase options.
	Options Options `json:"options" yaml:"options"`
}

// Sequence is the validated in-memory representation of the ordered phase
// description. Order is significant: it is the order of execution and state
// propagation. A Sequence is not safe for concurrent use; annotation mutates
// the shared Phase records in place.
type Sequence struct {
	// EOM is the equations-of-motion family selected for the whole mission.
	EOM EOM `json:"equations_of_motion"`

	// Phases are the phase records in execution order.
	Phases []*Phase `json:"phases"`

	stage Stage
}

// NewSequence builds the ordered phase sequence from the raw description,
// preserving input order. It fails with a malformed-phase error when required
// option keys are absent for the selected equations-of-motion family.
func NewSequence(eom EOM, descs []PhaseDesc) (*Sequence, error) {
	if err := eom.Validate(); err != nil {
		return nil, err
	}
	if len(descs) == 0 {
		return nil, NewMalformedPhaseError("mission has no phases")
	}

	seen := make(map[string]struct{}, len(descs))
	phases := make([]*Phase, 0, len(descs))
	for _, d := range descs {
		if d.Name == "" {
			return nil, NewMalformedPhaseError("phase has empty name")
		}
		if _, dup := seen[d.Name]; dup {
			return nil, NewMalformedPhaseError("duplicate phase name").WithPhase(d.Name)
		}
		seen[d.Name] = struct{}{}

		if err := validateOptions(eom, d.Name, d.Options); err != nil {
			return nil, err
		}

		phases = append(phases, &Phase{
			Name:    d.Name,
			Options: d.Options.Clone(),
		})
	}

	return &Sequence{
		EOM:    eom,
		Phases: phases,
		stage:  StageRaw,
	}, nil
}

// validateOptions checks the per-family required keys and basic well-formedness
// of one phase's options.
func validateOptions(eom EOM, name string, opts Options) error {
	if b := opts.DurationBounds; b != nil && b.Lower > b.Upper {
		return NewMalformedPhaseError(
			fmt.Sprintf("duration_bounds lower %g exceeds upper %g", b.Lower, b.Upper)).
			WithPhase(name)
	}
	if b := opts.DistanceBounds; b != nil && b.Lower > b.Upper {
		return NewMalformedPhaseError(
			fmt.Sprintf("distance_bounds lower %g exceeds upper %g", b.Lower, b.Upper)).
			WithPhase(name)
	}

	// Height-energy phases all integrate an ODE in time and need a time extent:
	// either explicit duration bounds or a duration target that resolves to them.
	if eom == EOMHeightEnergy && opts.DurationBounds == nil && opts.TargetDuration == nil {
		return NewMalformedPhaseError(
			"height-energy phase requires duration_bounds or target_duration").
			WithPhase(name)
	}

	for _, sv := range opts.UnlinkedStates {
		if err := sv.Validate(); err != nil {
			return NewMalformedPhaseError(
				fmt.Sprintf("unlinked_states: %v", err)).
				WithPhase(name)
		}
	}

	return nil
}

// Stage returns the pipeline stage the sequence has reached.
func (s *Sequence) Stage() Stage {
	return s.stage
}

// Phase returns the phase with the given name, or nil if absent.
func (s *Sequence) Phase(name string) *Phase {
	for _, p := range s.Phases {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Names returns the phase names in execution order.
func (s *Sequence) Names() []string {
	names := make([]string, len(s.Phases))
	for i, p := range s.Phases {
		names[i] = p.Name
	}
	return names
}
