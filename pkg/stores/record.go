package stores

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/superlil27/Aviary/pkg/mission"
)

// NewRunRecord converts one preprocessing result into storable records. The
// returned run carries a fresh UUID; phases and directives reference it.
func NewRunRecord(missionName string, result *mission.PreprocessResult) (*Run, []RunPhase, []RunDirective, error) {
	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode warnings: %w", err)
	}

	run := &Run{
		ID:            uuid.New().String(),
		Mission:       missionName,
		EOM:           string(result.Sequence.EOM),
		Status:        RunStatusCompleted,
		Warnings:      string(warnings),
		BoundaryIndex: result.Graph.BoundaryIndex,
		CreatedAt:     time.Now().UTC(),
	}

	phases := make([]RunPhase, len(result.Sequence.Phases))
	for i, p := range result.Sequence.Phases {
		options, err := json.Marshal(p.Options)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode options for phase %s: %w", p.Name, err)
		}
		phases[i] = RunPhase{
			RunID:    run.ID,
			Position: i,
			Name:     p.Name,
			Group:    string(p.Group),
			Kind:     string(p.Kind),
			Analytic: p.Analytic,
			Options:  string(options),
		}
	}

	directives := make([]RunDirective, len(result.Directives))
	for i, d := range result.Directives {
		links, err := json.Marshal(d.Links)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode links for %s->%s: %w", d.From, d.To, err)
		}
		directives[i] = RunDirective{
			RunID:     run.ID,
			Position:  i,
			FromPhase: d.From,
			ToPhase:   d.To,
			Kind:      string(d.Kind),
			Links:     string(links),
		}
	}

	return run, phases, directives, nil
}

// NewFailedRunRecord builds a run record for a preprocessing failure, so
// failed missions show up in run history alongside successful ones.
func NewFailedRunRecord(missionName string, eom mission.EOM, runErr error) *Run {
	msg := runErr.Error()
	return &Run{
		ID:            uuid.New().String(),
		Mission:       missionName,
		EOM:           string(eom),
		Status:        RunStatusFailed,
		Error:         &msg,
		Warnings:      "[]",
		BoundaryIndex: -1,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewFuelSummaryRecord converts a fuel accounting result into its storable
// form.
func NewFuelSummaryRecord(runID string, summary *mission.FuelSummary) *FuelSummary {
	return &FuelSummary{
		RunID:             runID,
		FuelBurned:        summary.FuelBurned,
		ReserveFuelBurned: summary.ReserveFuelBurned,
		ReserveFuel:       summary.ReserveFuel,
		Additional:        summary.ReserveFuelAdditional,
		Fraction:          summary.ReserveFuelFraction,
		CreatedAt:         time.Now().UTC(),
	}
}
