package mission_test

import (
	"context"
	"fmt"
	"log"

	"github.com/superlil27/Aviary/pkg/mission"
)

// ExamplePreprocess runs the full preprocessing pipeline over a four-phase
// two-degree-of-freedom mission with one reserve phase.
func ExamplePreprocess() {
	seq, err := mission.NewSequence(mission.EOMTwoDOFCollocation, []mission.PhaseDesc{
		{Name: "climb1"},
		{Name: "cruise", Options: mission.Options{
			TargetDistance: &mission.Quantity{Value: 800, Unit: "NM"},
		}},
		{Name: "desc1"},
		{Name: "reserve_cruise", Options: mission.Options{Reserve: true}},
	})
	if err != nil {
		log.Fatal(err)
	}

	result, err := mission.Preprocess(context.Background(), seq)
	if err != nil {
		log.Fatal(err)
	}

	for _, d := range result.Directives {
		fmt.Printf("%s -> %s: %s (%d states)\n", d.From, d.To, d.Kind, len(d.Links))
	}
	// Output:
	// climb1 -> cruise: full (2 states)
	// cruise -> desc1: full (2 states)
	// desc1 -> reserve_cruise: partial (2 states)
}

// ExampleAccountFuel aggregates per-phase fuel burn after the external solve.
func ExampleAccountFuel() {
	summary, err := mission.AccountFuel([]mission.PhaseResult{
		{Phase: "climb1", Group: mission.GroupRegular, FuelBurned: 1200},
		{Phase: "cruise", Group: mission.GroupRegular, FuelBurned: 5400},
		{Phase: "reserve_cruise", Group: mission.GroupReserve, FuelBurned: 750},
	}, 300, 0.05)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("FUEL_BURNED=%g RESERVE_FUEL_BURNED=%g RESERVE_FUEL=%g\n",
		summary.FuelBurned, summary.ReserveFuelBurned, summary.ReserveFuel)
	// Output:
	// FUEL_BURNED=6600 RESERVE_FUEL_BURNED=750 RESERVE_FUEL=1380
}
