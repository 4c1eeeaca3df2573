package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Rule maps one raw input value onto a target field path.
type Rule struct {
	// Path is the dot-separated target path, e.g. "slug.current".
	Path string `yaml:"sanityField" json:"sanityField"`
	// Value is the raw input value or a "={{ ... }}" expression.
	Value any `yaml:"inputValue" json:"inputValue"`
}

// RuleList is an ordered list of rules.
type RuleList []Rule

// RuleFile is the on-disk form of a rule set.
type RuleFile struct {
	Version string   `yaml:"version,omitempty"`
	Schema  string   `yaml:"schema,omitempty"`
	Rules   RuleList `yaml:"mappings"`
}

// UnmarshalYAML accepts a bare list of rules or the full file mapping.
func (f *RuleFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var rules RuleList
		if err := node.Decode(&rules); err != nil {
			return err
		}

		*f = RuleFile{Rules: rules}

		return nil
	}

	type plain RuleFile

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*f = RuleFile(p)

	return nil
}

// UnmarshalYAML implements custom YAML unmarshaling for RuleList.
// Accepts:
//   - Array of rules: [{sanityField: title, inputValue: x}]
//   - Node export shape: {values: [{sanityField: title, inputValue: x}]}
func (l *RuleList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var rules []Rule
		if err := node.Decode(&rules); err != nil {
			return err
		}

		*l = rules

		return nil

	case yaml.MappingNode:
		var wrapped struct {
			Values []Rule `yaml:"values"`
		}

		if err := node.Decode(&wrapped); err != nil {
			return err
		}

		*l = wrapped.Values

		return nil

	default:
		return fmt.Errorf("expected list of rules or {values: [...]}, got %v", kindName(node.Kind))
	}
}

// Paths returns the target paths in rule order.
func (l RuleList) Paths() []string {
	paths := make([]string, len(l))
	for i, r := range l {
		paths[i] = r.Path
	}

	return paths
}

func kindName(k yaml.Kind) string {
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
		return "unknown"
	}
}
