// Package config loads the sanity-mapper run configuration from YAML.
//
//	version: "1"
//	schema: schemas/post.json
//	mappings: rules/post.yaml
//	output: ndjson
//	operation: createOrReplace
//	id_field: slug
//	sanity:
//	  project_id: abc123
//	  dataset: production
//	  token_file: .sanity-token
//	log:
//	  level: info
//
// Relative file paths are resolved against the config file's directory.
// SANITY_PROJECT_ID, SANITY_DATASET and SANITY_TOKEN override the sanity
// section.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sanity-mapper/internal/logging"
	"sanity-mapper/internal/mutation"
	"sanity-mapper/internal/output"
)

// Environment variables read by ApplyEnv.
const (
	EnvProjectID = "SANITY_PROJECT_ID"
	EnvDataset   = "SANITY_DATASET"
	EnvToken     = "SANITY_TOKEN"
)

const currentVersion = "1"

// Config is the top-level run configuration.
type Config struct {
	Version  string `yaml:"version"`
	Schema   string `yaml:"schema"`
	Mappings string `yaml:"mappings"`
	Output   string `yaml:"output,omitempty"`

	LiteralSlugPaths bool `yaml:"literal_slug_paths,omitempty"`
	ContinueOnFail   bool `yaml:"continue_on_fail,omitempty"`

	// DeterministicKeys numbers block keys instead of drawing them at random.
	DeterministicKeys bool `yaml:"deterministic_keys,omitempty"`

	// Mutation settings, used by the mutate command.
	Operation       string `yaml:"operation,omitempty"`
	IDField         string `yaml:"id_field,omitempty"` // item field holding the document ID
	APIVersion      string `yaml:"api_version,omitempty"`
	ReturnDocuments bool   `yaml:"return_documents,omitempty"`
	GenerateIDs     bool   `yaml:"generate_ids,omitempty"`
	Concurrency     int    `yaml:"concurrency,omitempty"`

	// Timeout bounds each API request, e.g. "30s". Zero means no limit.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	Sanity SanityConfig `yaml:"sanity"`
	Log    LogConfig    `yaml:"log"`
}

// SanityConfig holds the project credentials. Token and TokenFile are
// alternatives; Token wins when both are set.
type SanityConfig struct {
	ProjectID string `yaml:"project_id"`
	Dataset   string `yaml:"dataset"`
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"token_file,omitempty"`
}

// LogConfig configures the slog default logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()

	return c
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = currentVersion
	}

	if c.Output == "" {
		c.Output = string(output.JSON)
	}

	if c.Operation == "" {
		c.Operation = string(mutation.Create)
	}

	if c.APIVersion == "" {
		c.APIVersion = mutation.DefaultAPIVersion
	}

	if c.Concurrency == 0 {
		c.Concurrency = 1
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = logging.FormatText
	}
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	if c.Version != currentVersion {
		return fmt.Errorf("unsupported version: %s (expected: %s)", c.Version, currentVersion)
	}

	if _, err := output.ParseFormat(c.Output); err != nil {
		return err
	}

	if _, err := mutation.ParseOperation(c.Operation); err != nil {
		return fmt.Errorf("operation: %w", err)
	}

	if !strings.HasPrefix(c.APIVersion, "v") {
		return fmt.Errorf("api_version %q must start with \"v\"", c.APIVersion)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	return nil
}

// ApplyEnv overrides the sanity section from the environment. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvProjectID); ok && v != "" {
		c.Sanity.ProjectID = v
	}

	if v, ok := lookup(EnvDataset); ok && v != "" {
		c.Sanity.Dataset = v
	}

	if v, ok := lookup(EnvToken); ok && v != "" {
		c.Sanity.Token = v
		c.Sanity.TokenFile = ""
	}
}

// Credentials returns the mutation credentials, reading the token file if
// no token is set inline. The result is validated.
func (c *Config) Credentials() (mutation.Credentials, error) {
	creds := mutation.Credentials{
		ProjectID: c.Sanity.ProjectID,
		Dataset:   c.Sanity.Dataset,
		Token:     c.Sanity.Token,
	}

	if creds.Token == "" && c.Sanity.TokenFile != "" {
		token, err := ReadToken(c.Sanity.TokenFile)
		if err != nil {
			return creds, fmt.Errorf("failed to read token file: %w", err)
		}

		creds.Token = token
	}

	return creds, creds.Validate()
}

// ReadToken reads the first line of a file and returns it trimmed.
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(string(data), "\n")

	return strings.TrimSpace(line), nil
}

// Load reads, defaults and validates the configuration at path, then
// applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	c.resolvePaths(filepath.Dir(path))
	c.ApplyEnv(os.LookupEnv)

	return c, nil
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &c, nil
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Schema, &c.Mappings, &c.Sanity.TokenFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
