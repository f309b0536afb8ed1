package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Loader reads mission descriptions from disk. Two formats are supported:
// declarative YAML files and Starlark generator scripts that compute the
// same structure programmatically.
type Loader struct {
	validate *validator.Validate
	schemas  *SchemaRegistry
	starlark *StarlarkEvaluator
	logger   zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStarlarkTimeout overrides the Starlark evaluation timeout.
func WithStarlarkTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.starlark = NewStarlarkEvaluator(timeout)
	}
}

// NewLoader creates a mission description loader.
func NewLoader(logger zerolog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		validate: validator.New(),
		schemas:  NewSchemaRegistry(),
		starlark: NewStarlarkEvaluator(0),
		logger:   logger.With().Str("component", "config").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Schemas exposes the loader's schema registry so callers can register
// additional schemas before loading.
func (l *Loader) Schemas() *SchemaRegistry {
	return l.schemas
}

// Load reads and validates a mission description file, dispatching on the
// file extension.
func (l *Loader) Load(ctx context.Context, path string) (*MissionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return l.ParseYAML(ctx, data)
	case ".star":
		return l.ParseStarlark(ctx, data, nil)
	default:
		return nil, fmt.Errorf("unsupported mission description format %q (want .yaml, .yml, or .star)", ext)
	}
}

// ParseYAML parses a YAML mission description. Unknown top-level fields are
// rejected; phase authoring order is preserved.
func (l *Loader) ParseYAML(ctx context.Context, data []byte) (*MissionConfig, error) {
	var cfg MissionConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse mission description: %w", err)
	}

	if err := l.validateConfig(ctx, &cfg); err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("mission", cfg.Mission.Name).
		Str("eom", string(cfg.Mission.EquationsOfMotion)).
		Int("phases", len(cfg.Phases)).
		Msg("parsed YAML mission description")

	return &cfg, nil
}

// ParseStarlark evaluates a Starlark mission generator and validates the
// resulting configuration. The input map is exposed to the script as
// predeclared globals.
func (l *Loader) ParseStarlark(ctx context.Context, data []byte, input map[string]interface{}) (*MissionConfig, error) {
	cfg, err := l.starlark.EvaluateMission(ctx, string(data), input)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate mission generator: %w", err)
	}

	if err := l.validateConfig(ctx, cfg); err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("mission", cfg.Mission.Name).
		Str("eom", string(cfg.Mission.EquationsOfMotion)).
		Int("phases", len(cfg.Phases)).
		Msg("evaluated Starlark mission generator")

	return cfg, nil
}

// validateConfig runs struct-tag validation followed by CUE schema validation.
func (l *Loader) validateConfig(ctx context.Context, cfg *MissionConfig) error {
	if err := l.validate.Struct(cfg); err != nil {
		return fmt.Errorf("mission description invalid: %w", err)
	}

	if err := l.schemas.ValidateMission(ctx, cfg); err != nil {
		return fmt.Errorf("mission description invalid: %w", err)
	}

	return nil
}
