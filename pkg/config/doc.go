// Package config loads and validates mission descriptions.
//
// Two authoring formats share one data model:
//
//   - YAML files (.yaml, .yml) hold a declarative description. The phases
//     block is a mapping whose key order is the flight order; decoding
//     preserves it.
//   - Starlark scripts (.star) generate the same structure programmatically,
//     useful for parameter sweeps and families of related missions. Scripts
//     run sandboxed with a hard timeout and must define a global `mission`
//     dict.
//
// A minimal YAML description:
//
//	mission:
//	  name: transport-baseline
//	  equations_of_motion: two_degree_of_freedom
//	  reserve_fuel:
//	    additional: 300
//	    fraction: 0.05
//	phases:
//	  climb1:
//	    duration_bounds: {lower: 5, upper: 50, unit: min}
//	  cruise:
//	    target_distance: {value: 2000, unit: NM}
//	  desc1:
//	    duration_bounds: {lower: 5, upper: 50, unit: min}
//	  reserve_cruise:
//	    reserve: true
//	    target_duration: {value: 30, unit: min}
//
// Validation happens in three layers: struct tags (validator), CUE schemas
// for structural constraints, and the descriptor-level checks inside
// mission.NewSequence when the configuration is converted with ToSequence.
package config
