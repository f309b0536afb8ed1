package mission

import (
	"fmt"
)

// Classify annotates every phase with its group (regular/reserve) and its
// analytic flag, and checks the ordering post-condition relied on by the
// linker: regular phases occupy a contiguous prefix, reserve phases a
// contiguous suffix. Phases are annotated in place and never reordered.
//
// The analytic flag follows a two-part rule: under the height-energy family
// every phase integrates an ODE, so the flag is always false; under the
// two-degree-of-freedom family exactly the phases whose resolved kind is
// cruise are analytic (closed-form Breguet segment).
func (s *Sequence) Classify() error {
	if s.stage >= StageClassified {
		// Classification is idempotent for the same input.
		return nil
	}

	for _, p := range s.Phases {
		if p.Options.Reserve {
			p.Group = GroupReserve
		} else {
			p.Group = GroupRegular
		}

		kind, err := s.resolveKind(p)
		if err != nil {
			return err
		}
		p.Kind = kind
		p.Analytic = s.EOM.IsTwoDOF() && kind == KindCruise
	}

	if err := s.checkOrdering(); err != nil {
		return err
	}

	s.stage = StageClassified
	return nil
}

// resolveKind matches the phase name against the keyword vocabulary. The kind
// only carries meaning under the two-degree-of-freedom family, where it selects
// the equations-of-motion variant and drives the analytic flag; there the
// keyword is mandatory for reserve phases and a name matching more than one
// keyword is rejected rather than tie-broken. Under height-energy every phase
// integrates the same ODE, so naming is irrelevant and resolution never fails.
func (s *Sequence) resolveKind(p *Phase) (PhaseKind, error) {
	matches := ResolvePhaseKind(p.Name)

	if !s.EOM.IsTwoDOF() {
		if len(matches) == 1 {
			return matches[0], nil
		}
		return KindUnknown, nil
	}

	switch len(matches) {
	case 0:
		if p.Group == GroupReserve {
			return KindUnknown, NewUnresolvedPhaseTypeError(
				"reserve phase name contains no recognized phase-type keyword").
				WithPhase(p.Name).
				WithStage(StageClassified.String()).
				WithDetail("keywords", phaseKinds)
		}
		return KindUnknown, nil
	case 1:
		return matches[0], nil
	default:
		return KindUnknown, NewUnresolvedPhaseTypeError(
			fmt.Sprintf("phase name matches %d phase-type keywords", len(matches))).
			WithPhase(p.Name).
			WithStage(StageClassified.String()).
			WithDetail("matches", matches)
	}
}

// checkOrdering enforces that all reserve phases follow all regular phases.
func (s *Sequence) checkOrdering() error {
	reserveSeen := false
	for _, p := range s.Phases {
		switch p.Group {
		case GroupReserve:
			reserveSeen = true
		case GroupRegular:
			if reserveSeen {
				return NewPhaseOrderingError(
					"regular phase follows a reserve phase; reserve phases are strictly post-mission").
					WithPhase(p.Name).
					WithStage(StageClassified.String())
			}
		}
	}
	return nil
}

// BoundaryIndex returns the index of the last regular phase when the sequence
// contains at least one regular and one reserve phase, and -1 otherwise.
// Classification must have run.
func (s *Sequence) BoundaryIndex() int {
	last := -1
	reserve := false
	for i, p := range s.Phases {
		switch p.Group {
		case GroupRegular:
			last = i
		case GroupReserve:
			reserve = true
		}
	}
	if last == -1 || !reserve {
		return -1
	}
	return last
}
