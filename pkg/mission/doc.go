// Package mission implements the mission-phase classification and
// inter-phase continuity-linking core of Aviary.
//
// # Overview
//
// A mission is an ordered sequence of trajectory phases (climb, cruise,
// descent, reserve variants), each solved either as an analytic closed-form
// segment or as a numerically integrated ODE segment. This package turns the
// flat, user-authored phase description into a validated, annotated phase
// graph plus the continuity directives the solver applies between phases.
//
// # Pipeline
//
// Phases move through four stages; each stage requires the previous one and
// is idempotent given the same input:
//
//	raw -> classified -> resolved -> linked
//
//  1. NewSequence builds the ordered phase records from the raw description
//     and rejects missing required options (descriptor store).
//  2. Classify partitions phases into regular/reserve groups, resolves each
//     phase's kind keyword, and tags analytic phases (classifier).
//  3. ResolveTargets expands target_duration / target_distance intents into
//     singleton bounds, fixed flags, and initial guesses (target resolver).
//  4. Link emits one continuity directive per adjacent pair: full continuity
//     inside a group, mass-and-range-only continuity across the single
//     regular->reserve boundary (continuity linker).
//
// Preprocess runs all three transform stages and is the entry point used by
// the CLI. After the external solve, AccountFuel aggregates per-phase fuel
// burn into the mission and reserve totals (fuel accountant).
//
// # Linking rules
//
// Within a group every state variable shared by both endpoints is linked,
// minus any states the earlier phase opts out of via unlinked_states. Across
// the regular->reserve boundary exactly mass and cumulative range are linked;
// altitude, speed, and flight-path angle are left solver-free so a reserve
// segment can start from an independent flight condition.
//
// Directives reference endpoint variables through each side's analytic flag:
// analytic phases expose closed-form summary scalars (cruise.mass_final),
// ODE phases expose an integrated state trace (climb1.states:mass[-1]).
//
// # Errors
//
// All errors are detected eagerly during preprocessing so a structurally
// invalid mission never reaches the expensive solve. Errors are classified
// user_input (fix the mission file) or internal (pipeline misuse by the
// caller) and carry one of the ErrCode constants. Warnings, such as
// user-supplied bounds discarded by an authoritative target, are returned to
// the caller and logged, never suppressed.
//
// # Concurrency
//
// The pipeline is a single-pass, in-memory transform. Annotation mutates the
// shared Phase records in place, so a Sequence must not be used from multiple
// goroutines without external synchronization.
package mission
