// Package stores provides SQLite-backed persistence for preprocessing runs.
//
// Each run records the annotated phase sequence, the continuity directives
// handed to the solver, surfaced warnings, and (once the solve completes)
// the fuel accounting summary. The schema is managed by embedded migrations
// applied on startup with Migrate.
package stores
