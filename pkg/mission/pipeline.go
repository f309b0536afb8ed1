package mission

import (
	"context"

	"github.com/rs/zerolog"
)

// PreprocessResult bundles the full pipeline output handed to the solver's
// constraint-construction step.
type PreprocessResult struct {
	// Sequence is the annotated, target-resolved phase sequence.
	Sequence *Sequence `json:"-"`

	// Directives are the continuity constraints in boundary order.
	Directives []Directive `json:"directives"`

	// Warnings are the non-fatal findings surfaced during resolution.
	Warnings []Warning `json:"warnings,omitempty"`

	// Graph is the link graph report form of the result.
	Graph *LinkGraph `json:"graph"`
}

// Preprocess runs the full pipeline over a raw sequence: classify, resolve
// targets, link. All validation errors are detected here, before any solve is
// attempted. Warnings are returned and logged, never suppressed.
//
// The logger is taken from the context via zerolog.Ctx; callers without one
// get the zerolog default.
func Preprocess(ctx context.Context, seq *Sequence) (*PreprocessResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "mission").Logger()

	if err := seq.Classify(); err != nil {
		return nil, err
	}
	logger.Debug().
		Int("phases", len(seq.Phases)).
		Int("boundary_index", seq.BoundaryIndex()).
		Msg("phases classified")

	warnings, err := seq.ResolveTargets()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn().
			Str("phase", w.Phase).
			Str("field", w.Field).
			Msg(w.Message)
	}

	directives, err := seq.Link()
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("directives", len(directives)).
		Msg("continuity directives emitted")

	return &PreprocessResult{
		Sequence:   seq,
		Directives: directives,
		Warnings:   warnings,
		Graph:      seq.Graph(directives),
	}, nil
}
