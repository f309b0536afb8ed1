package mission

import (
	"errors"
	"fmt"
)

// ResolveTargets rewrites each phase's options from its target fields and
// returns the warnings for any user-supplied values the rewrite discarded.
// The rewrite itself is the pure function ResolveOptions; this method applies
// it in sequence order and stores the resolved options back on each phase.
//
// Requires classification to have run first.
func (s *Sequence) ResolveTargets() ([]Warning, error) {
	if s.stage < StageClassified {
		return nil, NewPreconditionError(
			"target resolution requires a classified sequence").
			WithStage(s.stage.String())
	}
	if s.stage >= StageResolved {
		return nil, nil
	}

	var warnings []Warning
	for _, p := range s.Phases {
		resolved, w, err := ResolveOptions(p.Options)
		if err != nil {
			var me *MissionError
			if errors.As(err, &me) {
				return nil, me.WithPhase(p.Name).WithStage(StageResolved.String())
			}
			return nil, err
		}
		for i := range w {
			w[i].Phase = p.Name
		}
		warnings = append(warnings, w...)
		p.Options = resolved
	}

	s.stage = StageResolved
	return warnings, nil
}

// ResolveOptions expands the target_duration / target_distance user intent of
// a single phase into concrete solver directives. It is a pure transformation:
// the input is never mutated and the resolved options are returned fresh.
//
// With target_duration set, duration_bounds collapse to the singleton value,
// fixed_duration is forced true, and the initial time guess is overwritten to
// match. target_distance is handled analogously on the distance fields. Values
// the user supplied for the overwritten fields are discarded with a warning,
// since a target, when present, is authoritative. With no
// target set the options pass through untouched (the "as fast as possible"
// path).
func ResolveOptions(opts Options) (Options, []Warning, error) {
	if opts.TargetDuration != nil && opts.TargetDistance != nil {
		return Options{}, nil, NewConflictingTargetError(
			"target_duration and target_distance are both set; a phase extent can only be pinned in one dimension")
	}

	resolved := opts.Clone()
	var warnings []Warning

	switch {
	case opts.TargetDuration != nil:
		t := *opts.TargetDuration
		warnings = append(warnings, discardWarnings(
			"target_duration", t,
			field{"duration_bounds", opts.DurationBounds != nil},
			field{"fixed_duration", opts.FixedDuration},
			field{"time_guess", opts.TimeGuess != nil},
		)...)

		resolved.DurationBounds = &Bounds{Lower: t.Value, Upper: t.Value, Unit: t.Unit}
		resolved.FixedDuration = true
		resolved.TimeGuess = &Quantity{Value: t.Value, Unit: t.Unit}

	case opts.TargetDistance != nil:
		t := *opts.TargetDistance
		warnings = append(warnings, discardWarnings(
			"target_distance", t,
			field{"distance_bounds", opts.DistanceBounds != nil},
			field{"fixed_distance", opts.FixedDistance},
			field{"distance_guess", opts.DistanceGuess != nil},
		)...)

		resolved.DistanceBounds = &Bounds{Lower: t.Value, Upper: t.Value, Unit: t.Unit}
		resolved.FixedDistance = true
		resolved.DistanceGuess = &Quantity{Value: t.Value, Unit: t.Unit}
	}

	return resolved, warnings, nil
}

// field pairs an option field name with whether the user explicitly set it.
type field struct {
	name string
	set  bool
}

// discardWarnings builds one warning per explicitly-set field the target
// rewrite is about to overwrite.
func discardWarnings(target string, value Quantity, fields ...field) []Warning {
	var out []Warning
	for _, f := range fields {
		if !f.set {
			continue
		}
		out = append(out, Warning{
			Field: f.name,
			Message: fmt.Sprintf(
				"user-supplied value discarded: %s=%s is authoritative", target, value),
		})
	}
	return out
}
