package config

import (
	"context"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaRegistry manages CUE schemas for structural validation of mission
// descriptions beyond what struct tags can express.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a new schema registry with built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	ctx := cuecontext.New()
	sr := &SchemaRegistry{
		ctx:     ctx,
		schemas: make(map[string]cue.Value),
	}

	sr.registerBuiltInSchemas()

	return sr
}

// registerBuiltInSchemas registers all built-in schemas.
func (sr *SchemaRegistry) registerBuiltInSchemas() {
	sr.RegisterSchema("mission", builtinMissionSchema)
	sr.RegisterSchema("phase", builtinPhaseSchema)
}

// RegisterSchema registers a CUE schema with the given name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema validates data against a named schema. The schema's
// sole definition is unified with the encoded data; any mismatch surfaces as
// a validation error.
func (sr *SchemaRegistry) ValidateAgainstSchema(ctx context.Context, schemaName, defName string, data interface{}) error {
	schema, ok := sr.GetSchema(schemaName)
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	def := schema.LookupPath(cue.ParsePath(defName))
	if err := def.Err(); err != nil {
		return fmt.Errorf("schema %s has no definition %s: %w", schemaName, defName, err)
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := def.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// ListSchemas returns all registered schema names.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	return names
}

// ValidateMission validates a mission configuration against the mission schema.
func (sr *SchemaRegistry) ValidateMission(ctx context.Context, cfg *MissionConfig) error {
	if err := sr.ValidateAgainstSchema(ctx, "mission", "#Mission", cfg.Mission); err != nil {
		return err
	}
	for _, entry := range cfg.Phases {
		if err := sr.ValidateAgainstSchema(ctx, "phase", "#Phase", entry.Options); err != nil {
			return fmt.Errorf("phase %q: %w", entry.Name, err)
		}
	}
	return nil
}

// Built-in schema definitions

const builtinMissionSchema = `
// Mission schema for the mission metadata block
#Mission: {
	// Name identifies the mission
	name: string & =~"^[a-zA-Z0-9_-]+$"

	// EquationsOfMotion selects the dynamics family
	equations_of_motion: "height_energy" | "two_degree_of_freedom" | "two_degree_of_freedom_shooting"

	// ReserveFuel configures the post-solve reserve calculation
	reserve_fuel?: {
		additional?: number & >=0
		fraction?:   number & >=0 & <=1
	}
}
`

const builtinPhaseSchema = `
// Phase schema for one phase's options block
#Phase: {
	// Reserve marks a post-mission contingency phase
	reserve?: bool

	// At most one target may fix the phase extent
	target_duration?: #Quantity
	target_distance?: #Quantity

	duration_bounds?: #Bounds
	fixed_duration?:  bool

	distance_bounds?: #Bounds
	fixed_distance?:  bool

	time_guess?:     #Quantity
	distance_guess?: #Quantity

	// States this phase opts out of linking with its successor
	unlinked_states?: [...("mass" | "range" | "altitude" | "velocity" | "flight_path_angle")]
}

#Quantity: {
	value: number
	unit?: string
}

#Bounds: {
	lower: number
	upper: number
	unit?: string
}
`
