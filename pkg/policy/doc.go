// Package policy evaluates mission descriptions against Rego policies.
//
// Policies run before planning: built-in policies guard against missions
// that would waste a solver run (non-physical extents, no fuel margin of any
// kind), and site-specific policy packs load from disk as .rego or .json
// files.
//
// The engine runs in one of two modes. In advisory mode every violation is
// surfaced but planning proceeds; in enforcing mode an error-severity
// violation blocks the run.
//
// A policy's deny rules receive the mission document as input and yield
// violation objects:
//
//	package aviary.policies.extents
//
//	import rego.v1
//
//	deny contains violation if {
//	    some phase in input.mission.phases
//	    phase.options.target_duration.value <= 0
//	    violation := {
//	        "message": sprintf("phase %q: target_duration must be positive", [phase.name]),
//	        "severity": "error",
//	        "phase": phase.name,
//	    }
//	}
package policy
