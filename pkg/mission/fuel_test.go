package mission

import (
	"math"
	"testing"
)

func TestAccountFuel_Totals(t *testing.T) {
	results := []PhaseResult{
		{Phase: "climb1", Group: GroupRegular, FuelBurned: 1200},
		{Phase: "cruise", Group: GroupRegular, FuelBurned: 5400},
		{Phase: "desc1", Group: GroupRegular, FuelBurned: 300},
		{Phase: "reserve_cruise", Group: GroupReserve, FuelBurned: 750},
	}

	summary, err := AccountFuel(results, 300, 0.05)
	if err != nil {
		t.Fatalf("AccountFuel failed: %v", err)
	}

	if summary.FuelBurned != 6900 {
		t.Errorf("expected FuelBurned 6900, got %g", summary.FuelBurned)
	}
	if summary.ReserveFuelBurned != 750 {
		t.Errorf("expected ReserveFuelBurned 750, got %g", summary.ReserveFuelBurned)
	}

	want := 300 + 0.05*6900 + 750
	if summary.ReserveFuel != want {
		t.Errorf("expected ReserveFuel %g, got %g", want, summary.ReserveFuel)
	}

	// Inputs echoed for traceability.
	if summary.ReserveFuelAdditional != 300 || summary.ReserveFuelFraction != 0.05 {
		t.Errorf("inputs not echoed: %+v", summary)
	}
}

func TestAccountFuel_FormulaExact(t *testing.T) {
	// Arbitrary nonnegative inputs; the identity must hold exactly.
	cases := []struct {
		regular, reserve, additional, fraction float64
	}{
		{0, 0, 0, 0},
		{1234.5, 0, 100, 0.1},
		{0, 987.6, 0, 0.5},
		{1e6, 1e3, 42, 0.031},
	}

	for _, c := range cases {
		summary, err := AccountFuel([]PhaseResult{
			{Phase: "a", Group: GroupRegular, FuelBurned: c.regular},
			{Phase: "b", Group: GroupReserve, FuelBurned: c.reserve},
		}, c.additional, c.fraction)
		if err != nil {
			t.Fatalf("AccountFuel failed: %v", err)
		}

		want := c.additional + c.fraction*c.regular + c.reserve
		if math.Abs(summary.ReserveFuel-want) != 0 {
			t.Errorf("case %+v: expected ReserveFuel %g, got %g", c, want, summary.ReserveFuel)
		}
	}
}

func TestAccountFuel_UnclassifiedPhase(t *testing.T) {
	results := []PhaseResult{
		{Phase: "climb1", Group: GroupRegular, FuelBurned: 1200},
		{Phase: "mystery", FuelBurned: 100},
	}

	_, err := AccountFuel(results, 0, 0)
	if err == nil {
		t.Fatal("expected unclassified-phase error, got nil")
	}
	if !HasCode(err, ErrCodeUnclassifiedPhase) {
		t.Errorf("expected code %s, got: %v", ErrCodeUnclassifiedPhase, err)
	}
	if !IsInternal(err) {
		t.Errorf("expected internal classification, got: %v", err)
	}

	me, ok := err.(*MissionError)
	if !ok || me.Phase != "mystery" {
		t.Errorf("expected phase context mystery, got: %v", err)
	}
}

func TestAccountFuel_NoDoubleCounting(t *testing.T) {
	results := []PhaseResult{
		{Phase: "cruise", Group: GroupRegular, FuelBurned: 100},
		{Phase: "reserve_cruise", Group: GroupReserve, FuelBurned: 50},
	}

	summary, err := AccountFuel(results, 0, 0)
	if err != nil {
		t.Fatalf("AccountFuel failed: %v", err)
	}

	total := summary.FuelBurned + summary.ReserveFuelBurned
	if total != 150 {
		t.Errorf("expected combined burn 150, got %g", total)
	}
}
