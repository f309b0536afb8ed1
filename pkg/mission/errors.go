package mission

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an error for reporting and exit handling.
type ErrorClass string

const (
	// ErrorClassUserInput indicates a problem with the user-authored mission description.
	// The user must fix the mission file; no solve should be attempted.
	ErrorClassUserInput ErrorClass = "user_input"

	// ErrorClassInternal indicates pipeline misuse by the caller.
	// Examples: linking before classification, accounting on unclassified phases.
	ErrorClassInternal ErrorClass = "internal"
)

// MissionError represents a classified preprocessing error with phase context.
// nolint:revive // MissionError is intentionally named to distinguish from standard errors
type MissionError struct {
	// Class is the error classification for reporting.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Phase is the phase name that caused the error, if applicable.
	Phase string `json:"phase,omitempty"`

	// Stage is the pipeline stage that detected the error.
	Stage string `json:"stage,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *MissionError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Phase != "" {
		msg = fmt.Sprintf("%s (phase=%s)", msg, e.Phase)
	}
	if e.Stage != "" {
		msg = fmt.Sprintf("%s (stage=%s)", msg, e.Stage)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *MissionError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *MissionError) Is(target error) bool {
	t, ok := target.(*MissionError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// WithPhase adds phase context to an error.
func (e *MissionError) WithPhase(phase string) *MissionError {
	e.Phase = phase
	return e
}

// WithStage adds pipeline stage context to an error.
func (e *MissionError) WithStage(stage string) *MissionError {
	e.Stage = stage
	return e
}

// WithDetail adds a detail field to the error context.
func (e *MissionError) WithDetail(key string, value interface{}) *MissionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Error codes for the preprocessing error taxonomy.
const (
	// ErrCodeMalformedPhase indicates required option keys are absent for the
	// selected equations-of-motion family.
	ErrCodeMalformedPhase = "MALFORMED_PHASE"

	// ErrCodeConflictingTarget indicates both target_duration and target_distance
	// are set on the same phase.
	ErrCodeConflictingTarget = "CONFLICTING_TARGET"

	// ErrCodeUnresolvedPhaseType indicates a reserve phase name under the
	// two-degree-of-freedom family contains no (or more than one) recognized keyword.
	ErrCodeUnresolvedPhaseType = "UNRESOLVED_PHASE_TYPE"

	// ErrCodePhaseOrdering indicates a reserve phase precedes a regular phase.
	ErrCodePhaseOrdering = "PHASE_ORDERING"

	// ErrCodeUnlinkableBoundary indicates a linking endpoint whose analytic flag
	// could not be determined.
	ErrCodeUnlinkableBoundary = "UNLINKABLE_BOUNDARY"

	// ErrCodeUnclassifiedPhase indicates fuel accounting was invoked on a phase
	// with no determined group.
	ErrCodeUnclassifiedPhase = "UNCLASSIFIED_PHASE"

	// ErrCodePrecondition indicates a pipeline stage ran before its prerequisite.
	ErrCodePrecondition = "PRECONDITION"
)

// NewMalformedPhaseError creates an error for a phase missing required options.
func NewMalformedPhaseError(message string) *MissionError {
	return &MissionError{
		Class:   ErrorClassUserInput,
		Message: message,
		Code:    ErrCodeMalformedPhase,
	}
}

// NewConflictingTargetError creates an error for a phase with both duration and
// distance targets set.
func NewConflictingTargetError(message string) *MissionError {
	return &MissionError{
		Class:   ErrorClassUserInput,
		Message: message,
		Code:    ErrCodeConflictingTarget,
	}
}

// NewUnresolvedPhaseTypeError creates an error for an ambiguous phase-type keyword.
func NewUnresolvedPhaseTypeError(message string) *MissionError {
	return &MissionError{
		Class:   ErrorClassUserInput,
		Message: message,
		Code:    ErrCodeUnresolvedPhaseType,
	}
}

// NewPhaseOrderingError creates an error for a reserve phase preceding a regular phase.
func NewPhaseOrderingError(message string) *MissionError {
	return &MissionError{
		Class:   ErrorClassUserInput,
		Message: message,
		Code:    ErrCodePhaseOrdering,
	}
}

// NewUnlinkableBoundaryError creates an error for an undetermined linking endpoint.
func NewUnlinkableBoundaryError(message string) *MissionError {
	return &MissionError{
		Class:   ErrorClassInternal,
		Message: message,
		Code:    ErrCodeUnlinkableBoundary,
	}
}

// NewUnclassifiedPhaseError creates an error for accounting over an unclassified phase.
func NewUnclassifiedPhaseError(message string) *MissionError {
	return &MissionError{
		Class:   ErrorClassInternal,
		Message: message,
		Code:    ErrCodeUnclassifiedPhase,
	}
}

// NewPreconditionError creates an error for a pipeline stage running out of order.
func NewPreconditionError(message string) *MissionError {
	return &MissionError{
		Class:   ErrorClassInternal,
		Message: message,
		Code:    ErrCodePrecondition,
	}
}

// IsUserInput returns true if the error is classified as a user-input problem.
func IsUserInput(err error) bool {
	var e *MissionError
	if errors.As(err, &e) {
		return e.Class == ErrorClassUserInput
	}
	return false
}

// IsInternal returns true if the error is classified as internal pipeline misuse.
func IsInternal(err error) bool {
	var e *MissionError
	if errors.As(err, &e) {
		return e.Class == ErrorClassInternal
	}
	return false
}

// HasCode returns true if the error carries the given error code.
func HasCode(err error, code string) bool {
	var e *MissionError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
