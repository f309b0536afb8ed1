package policy

import (
	"time"

	"github.com/superlil27/Aviary/pkg/mission"
)

// Severity represents the severity level of a policy violation.
type Severity string

const (
	// SeverityInfo is for informational findings.
	SeverityInfo Severity = "info"

	// SeverityWarning is for findings that should be reviewed but do not
	// block planning.
	SeverityWarning Severity = "warning"

	// SeverityError is for violations that block planning in enforcing mode.
	SeverityError Severity = "error"
)

// Mode selects how violations affect the outcome.
type Mode string

const (
	// ModeAdvisory surfaces violations without blocking.
	ModeAdvisory Mode = "advisory"

	// ModeEnforcing blocks on error-severity violations.
	ModeEnforcing Mode = "enforcing"
)

// Policy represents a policy rule with its Rego code.
type Policy struct {
	// Name is the unique name of the policy.
	Name string `json:"name"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Rego contains the Rego policy code.
	Rego string `json:"rego"`

	// Severity is the default severity for violations.
	Severity Severity `json:"severity"`

	// Enabled indicates if the policy is active.
	Enabled bool `json:"enabled"`

	// Tags are labels for organizing policies.
	Tags []string `json:"tags,omitempty"`

	// Metadata contains additional policy metadata.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// CreatedAt is when the policy was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the policy was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// Violation represents a single policy violation.
type Violation struct {
	// Policy is the name of the policy that was violated.
	Policy string `json:"policy"`

	// Phase is the phase the violation applies to, if phase-scoped.
	Phase string `json:"phase,omitempty"`

	// Message is a human-readable violation message.
	Message string `json:"message"`

	// Severity is the violation severity level.
	Severity Severity `json:"severity"`

	// DetectedAt is when the violation was detected.
	DetectedAt time.Time `json:"detected_at"`
}

// Result represents the result of policy evaluation over a mission.
type Result struct {
	// Allowed indicates if planning may proceed.
	Allowed bool `json:"allowed"`

	// Violations lists all policy violations.
	Violations []Violation `json:"violations,omitempty"`

	// Warnings lists evaluation problems that did not block the run.
	Warnings []string `json:"warnings,omitempty"`

	// EvaluatedPolicies lists the names of policies that were evaluated.
	EvaluatedPolicies []string `json:"evaluated_policies"`

	// EvaluatedAt is when the policies were evaluated.
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// MissionInput is the mission-level document policies evaluate against.
// Phases carry the classifier's annotations when evaluation runs after
// preprocessing; raw phases evaluate with empty group and kind.
type MissionInput struct {
	// Name identifies the mission.
	Name string `json:"name"`

	// EquationsOfMotion is the dynamics family.
	EquationsOfMotion string `json:"equations_of_motion"`

	// ReserveFuel carries the reserve-fuel parameters.
	ReserveFuel ReserveFuelInput `json:"reserve_fuel"`

	// Phases are the mission phases in flight order.
	Phases []*mission.Phase `json:"phases"`
}

// ReserveFuelInput mirrors the reserve-fuel configuration for policy input.
type ReserveFuelInput struct {
	Additional float64 `json:"additional"`
	Fraction   float64 `json:"fraction"`
}

// Input is the full input document for one policy evaluation.
type Input struct {
	// Mission is the mission being evaluated.
	Mission *MissionInput `json:"mission,omitempty"`

	// Context provides additional evaluation context.
	Context *Context `json:"context"`
}

// Context provides context information for policy evaluation.
type Context struct {
	// Timestamp is when the evaluation is occurring.
	Timestamp time.Time `json:"timestamp"`

	// Operation is the operation being performed (e.g., "validate", "plan").
	Operation string `json:"operation,omitempty"`

	// Metadata contains additional context metadata.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
