package mapping

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML or JSON rule file from the given path.
// A relative Schema reference is resolved against the file's directory.
func LoadFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	rf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if rf.Schema != "" && !filepath.IsAbs(rf.Schema) {
		rf.Schema = filepath.Join(filepath.Dir(path), rf.Schema)
	}

	return rf, nil
}

// Parse parses YAML (or JSON) data into a RuleFile.
func Parse(data []byte) (*RuleFile, error) {
	var rf RuleFile

	err := yaml.Unmarshal(data, &rf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&rf)

	return &rf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(rf *RuleFile) {
	if rf.Version == "" {
		rf.Version = "1"
	}

	if rf.Rules == nil {
		rf.Rules = RuleList{}
	}
}
