package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/superlil27/Aviary/pkg/mission"
)

// MissionConfig is the top-level mission description as authored by the user.
// It carries the mission metadata and the ordered phase list; conversion to a
// mission.Sequence happens after validation.
type MissionConfig struct {
	// Mission is the mission-level metadata block.
	Mission MissionMeta `json:"mission" yaml:"mission" validate:"required"`

	// Phases is the ordered phase mapping. Authoring order is the flight
	// order, so decoding preserves it.
	Phases PhaseList `json:"phases" yaml:"phases" validate:"required,min=1,dive"`
}

// MissionMeta holds the mission-level settings shared by all phases.
type MissionMeta struct {
	// Name identifies the mission in logs, reports, and stored runs.
	Name string `json:"name" yaml:"name" validate:"required"`

	// EquationsOfMotion selects the dynamics family for the whole mission.
	EquationsOfMotion mission.EOM `json:"equations_of_motion" yaml:"equations_of_motion" validate:"required,oneof=height_energy two_degree_of_freedom two_degree_of_freedom_shooting"`

	// ReserveFuel configures the post-solve reserve-fuel calculation.
	ReserveFuel ReserveFuelConfig `json:"reserve_fuel" yaml:"reserve_fuel"`
}

// ReserveFuelConfig parameterizes the reserve-fuel formula applied after the
// trajectory solve: additional + fraction of mission fuel burned + fuel burned
// across the reserve phases themselves.
type ReserveFuelConfig struct {
	// Additional is a flat fuel margin in the mission's mass unit.
	Additional float64 `json:"additional" yaml:"additional" validate:"gte=0"`

	// Fraction is the fraction of mission fuel burned added as margin.
	Fraction float64 `json:"fraction" yaml:"fraction" validate:"gte=0,lte=1"`
}

// PhaseEntry is one named phase with its authored options.
type PhaseEntry struct {
	// Name is the phase name, the mapping key in the description file.
	Name string `json:"name" validate:"required"`

	// Options are the authored phase options.
	Options mission.Options `json:"options"`
}

// PhaseList is an ordered list of phases. In YAML the phases appear as a
// mapping; plain map decoding would lose the authoring order, so the list
// decodes the mapping node directly.
type PhaseList []PhaseEntry

// UnmarshalYAML decodes a YAML mapping into the list, preserving key order.
func (pl *PhaseList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("phases must be a mapping of phase name to options, got %s", yamlKindName(node.Kind))
	}

	entries := make(PhaseList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		var name string
		if err := keyNode.Decode(&name); err != nil {
			return fmt.Errorf("invalid phase name at line %d: %w", keyNode.Line, err)
		}

		var opts mission.Options
		if valNode.Kind != yaml.MappingNode && !(valNode.Kind == yaml.ScalarNode && valNode.Tag == "!!null") {
			return fmt.Errorf("phase %q: options must be a mapping, got %s", name, yamlKindName(valNode.Kind))
		}
		if valNode.Kind == yaml.MappingNode {
			if err := valNode.Decode(&opts); err != nil {
				return fmt.Errorf("phase %q: %w", name, err)
			}
		}

		entries = append(entries, PhaseEntry{Name: name, Options: opts})
	}

	*pl = entries
	return nil
}

// MarshalYAML encodes the list back to a mapping in authoring order.
func (pl PhaseList) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range pl {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(entry.Name); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(entry.Options); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// Names returns the phase names in authoring order.
func (pl PhaseList) Names() []string {
	names := make([]string, len(pl))
	for i, entry := range pl {
		names[i] = entry.Name
	}
	return names
}

// ToSequence converts the validated configuration into a phase sequence ready
// for preprocessing. Descriptor-level validation (unique names, ordered
// bounds, time-extent requirements) happens inside mission.NewSequence.
func (c *MissionConfig) ToSequence() (*mission.Sequence, error) {
	descs := make([]mission.PhaseDesc, len(c.Phases))
	for i, entry := range c.Phases {
		descs[i] = mission.PhaseDesc{
			Name:    entry.Name,
			Options: entry.Options,
		}
	}
	return mission.NewSequence(c.Mission.EquationsOfMotion, descs)
}

func yamlKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}
