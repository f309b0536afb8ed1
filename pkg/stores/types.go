package stores

import (
	"context"
	"database/sql"
	"time"
)

// RunStatus represents the outcome of one preprocessing run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded preprocessing run: a mission description pushed
// through classification, target resolution, and continuity linking.
type Run struct {
	ID            string    `json:"id"`
	Mission       string    `json:"mission"`
	EOM           string    `json:"eom"`
	Status        RunStatus `json:"status"`
	Error         *string   `json:"error,omitempty"`
	Warnings      string    `json:"warnings"` // JSON array of mission.Warning
	BoundaryIndex int       `json:"boundary_index"`
	CreatedAt     time.Time `json:"created_at"`
}

// RunPhase is one annotated phase of a recorded run, in flight order.
type RunPhase struct {
	RunID    string `json:"run_id"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	Kind     string `json:"kind"`
	Analytic bool   `json:"analytic"`
	Options  string `json:"options"` // JSON blob of resolved options
}

// RunDirective is one continuity directive of a recorded run.
type RunDirective struct {
	RunID     string `json:"run_id"`
	Position  int    `json:"position"`
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Kind      string `json:"kind"`
	Links     string `json:"links"` // JSON array of state links
}

// FuelSummary is the recorded post-solve fuel accounting for a run.
type FuelSummary struct {
	RunID             string    `json:"run_id"`
	FuelBurned        float64   `json:"fuel_burned"`
	ReserveFuelBurned float64   `json:"reserve_fuel_burned"`
	ReserveFuel       float64   `json:"reserve_fuel"`
	Additional        float64   `json:"additional"`
	Fraction          float64   `json:"fraction"`
	CreatedAt         time.Time `json:"created_at"`
}

// Store defines the interface for the run persistence layer.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Run operations
	SaveRun(ctx context.Context, run *Run, phases []RunPhase, directives []RunDirective) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*Run, error)
	DeleteRun(ctx context.Context, id string) error

	// Run detail operations
	ListPhasesByRun(ctx context.Context, runID string) ([]*RunPhase, error)
	ListDirectivesByRun(ctx context.Context, runID string) ([]*RunDirective, error)

	// Fuel accounting operations
	SaveFuelSummary(ctx context.Context, summary *FuelSummary) error
	GetFuelSummary(ctx context.Context, runID string) (*FuelSummary, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
