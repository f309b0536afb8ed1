package mission

import (
	"context"
	"fmt"
)

// PhaseResult is the per-phase outcome of the external numerical solve that
// the fuel accountant consumes. Group must match the classifier's annotation
// for the phase.
type PhaseResult struct {
	// Phase is the phase name.
	Phase string `json:"phase" yaml:"phase"`

	// Group is the phase's regular/reserve partition.
	Group PhaseGroup `json:"group" yaml:"group"`

	// FuelBurned is the fuel consumed over the phase.
	FuelBurned float64 `json:"fuel_burned" yaml:"fuel_burned"`
}

// FuelSummary is the post-solve reserve-fuel accounting, with the two inputs
// echoed for traceability.
type FuelSummary struct {
	// FuelBurned is the total fuel burn over the regular phases.
	FuelBurned float64 `json:"fuel_burned" yaml:"fuel_burned"`

	// ReserveFuelBurned is the total fuel burn over the reserve phases.
	ReserveFuelBurned float64 `json:"reserve_fuel_burned" yaml:"reserve_fuel_burned"`

	// ReserveFuel is the total reserve requirement:
	// additional + fraction*FuelBurned + ReserveFuelBurned.
	ReserveFuel float64 `json:"reserve_fuel" yaml:"reserve_fuel"`

	// ReserveFuelAdditional echoes the fixed additional-reserve input.
	ReserveFuelAdditional float64 `json:"reserve_fuel_additional" yaml:"reserve_fuel_additional"`

	// ReserveFuelFraction echoes the fractional-reserve input.
	ReserveFuelFraction float64 `json:"reserve_fuel_fraction" yaml:"reserve_fuel_fraction"`
}

// AccountFuel aggregates per-phase fuel burn into mission and reserve totals.
// The fraction applies to the regular-mission burn only. Every result must
// carry a determined group; a phase cannot be silently assigned to either
// total.
func AccountFuel(results []PhaseResult, additional, fraction float64) (*FuelSummary, error) {
	summary := &FuelSummary{
		ReserveFuelAdditional: additional,
		ReserveFuelFraction:   fraction,
	}

	for _, r := range results {
		switch r.Group {
		case GroupRegular:
			summary.FuelBurned += r.FuelBurned
		case GroupReserve:
			summary.ReserveFuelBurned += r.FuelBurned
		default:
			return nil, NewUnclassifiedPhaseError(
				fmt.Sprintf("phase result has undetermined group %q", string(r.Group))).
				WithPhase(r.Phase)
		}
	}

	summary.ReserveFuel = summary.ReserveFuelAdditional +
		summary.ReserveFuelFraction*summary.FuelBurned +
		summary.ReserveFuelBurned

	return summary, nil
}

// Solver is the external collaborator that consumes the annotated sequence and
// its continuity directives and produces per-phase results. The numerical
// optimizer itself lives outside this module.
type Solver interface {
	// Solve runs the trajectory optimization over a linked sequence.
	Solve(ctx context.Context, seq *Sequence, directives []Directive) ([]PhaseResult, error)
}
