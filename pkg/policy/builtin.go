package policy

import (
	"time"
)

// GetBuiltinPolicies returns all built-in mission policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		reserveFuelMarginPolicy(),
		phaseNamingPolicy(),
		extentSanityPolicy(),
		missionShapePolicy(),
	}
}

// reserveFuelMarginPolicy warns when a mission flies with no fuel margin at
// all: no flat margin, no fraction, and no reserve phases.
func reserveFuelMarginPolicy() Policy {
	return Policy{
		Name:        "reserve-fuel-margin",
		Description: "Warns when a mission carries no reserve fuel margin of any kind",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"fuel", "safety"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package aviary.policies.reserve_fuel

import rego.v1

deny contains violation if {
	input.mission
	m := input.mission

	m.reserve_fuel.additional == 0
	m.reserve_fuel.fraction == 0
	not has_reserve_phase(m)

	violation := {
		"message": sprintf("mission %s carries no reserve fuel margin: no additional fuel, no fraction, and no reserve phases", [m.name]),
		"severity": "warning",
	}
}

has_reserve_phase(m) if {
	some phase in m.phases
	phase.options.reserve == true
}
`,
	}
}

// phaseNamingPolicy enforces phase naming conventions.
func phaseNamingPolicy() Policy {
	return Policy{
		Name:        "phase-naming",
		Description: "Enforces phase naming conventions (lowercase, alphanumeric, underscores only)",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"naming", "conventions"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package aviary.policies.naming

import rego.v1

deny contains violation if {
	input.mission
	some phase in input.mission.phases
	name := phase.name

	not regex.match("^[a-z0-9_]+$", name)
	violation := {
		"message": sprintf("phase name %q must contain only lowercase letters, numbers, and underscores", [name]),
		"severity": "warning",
		"phase": name,
	}
}

deny contains violation if {
	input.mission
	some phase in input.mission.phases
	name := phase.name

	count(name) > 63
	violation := {
		"message": sprintf("phase name %q must be at most 63 characters long", [name]),
		"severity": "warning",
		"phase": name,
	}
}
`,
	}
}

// extentSanityPolicy rejects non-physical phase extents before they reach
// the solver.
func extentSanityPolicy() Policy {
	return Policy{
		Name:        "extent-sanity",
		Description: "Rejects non-positive target durations and distances and negative bounds",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"extents", "sanity"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package aviary.policies.extents

import rego.v1

deny contains violation if {
	input.mission
	some phase in input.mission.phases
	phase.options.target_duration.value <= 0

	violation := {
		"message": sprintf("phase %q: target_duration must be positive", [phase.name]),
		"severity": "error",
		"phase": phase.name,
	}
}

deny contains violation if {
	input.mission
	some phase in input.mission.phases
	phase.options.target_distance.value <= 0

	violation := {
		"message": sprintf("phase %q: target_distance must be positive", [phase.name]),
		"severity": "error",
		"phase": phase.name,
	}
}

deny contains violation if {
	input.mission
	some phase in input.mission.phases
	phase.options.duration_bounds.lower < 0

	violation := {
		"message": sprintf("phase %q: duration_bounds must not go negative", [phase.name]),
		"severity": "error",
		"phase": phase.name,
	}
}

deny contains violation if {
	input.mission
	some phase in input.mission.phases
	phase.options.distance_bounds.lower < 0

	violation := {
		"message": sprintf("phase %q: distance_bounds must not go negative", [phase.name]),
		"severity": "error",
		"phase": phase.name,
	}
}
`,
	}
}

// missionShapePolicy surfaces unusual mission shapes worth a second look.
func missionShapePolicy() Policy {
	return Policy{
		Name:        "mission-shape",
		Description: "Flags missions without a cruise phase or consisting only of reserve phases",
		Severity:    SeverityInfo,
		Enabled:     true,
		Tags:        []string{"shape"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package aviary.policies.shape

import rego.v1

deny contains violation if {
	input.mission
	m := input.mission

	not has_cruise(m)
	violation := {
		"message": sprintf("mission %s has no cruise phase", [m.name]),
		"severity": "info",
	}
}

deny contains violation if {
	input.mission
	m := input.mission

	count(m.phases) > 0
	every phase in m.phases {
		phase.options.reserve == true
	}
	violation := {
		"message": sprintf("mission %s consists only of reserve phases", [m.name]),
		"severity": "info",
	}
}

has_cruise(m) if {
	some phase in m.phases
	contains(phase.name, "cruise")
}
`,
	}
}
