package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanity-mapper/internal/mutation"
)

func noEnv(string) (string, bool) { return "", false }

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sanity-mapper.yaml")

	validConfig := `version: "1"
schema: schemas/post.json
mappings: rules/post.yaml
output: ndjson
operation: createOrReplace
id_field: slug
concurrency: 4
continue_on_fail: true
deterministic_keys: true
timeout: 45s
sanity:
  project_id: abc123
  dataset: production
  token_file: .sanity-token
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(validConfig), 0o644))

	t.Setenv(EnvProjectID, "")
	t.Setenv(EnvDataset, "")
	t.Setenv(EnvToken, "")

	config, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "1", config.Version)
	assert.Equal(t, filepath.Join(tmpDir, "schemas/post.json"), config.Schema)
	assert.Equal(t, filepath.Join(tmpDir, "rules/post.yaml"), config.Mappings)
	assert.Equal(t, filepath.Join(tmpDir, ".sanity-token"), config.Sanity.TokenFile)
	assert.Equal(t, "ndjson", config.Output)
	assert.Equal(t, "createOrReplace", config.Operation)
	assert.Equal(t, "slug", config.IDField)
	assert.Equal(t, 4, config.Concurrency)
	assert.True(t, config.ContinueOnFail)
	assert.True(t, config.DeterministicKeys)
	assert.Equal(t, 45*time.Second, config.Timeout)
	assert.Equal(t, mutation.DefaultAPIVersion, config.APIVersion)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/sanity-mapper.yaml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("schema: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_Defaults(t *testing.T) {
	config, err := Parse([]byte("schema: post.json\n"))
	require.NoError(t, err)

	assert.Equal(t, Default().Output, config.Output)
	assert.Equal(t, "json", config.Output)
	assert.Equal(t, "create", config.Operation)
	assert.Equal(t, 1, config.Concurrency)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"version", func(c *Config) { c.Version = "2" }, "unsupported version"},
		{"output", func(c *Config) { c.Output = "xml" }, "unknown output format"},
		{"operation", func(c *Config) { c.Operation = "upsert" }, "unknown operation"},
		{"api version", func(c *Config) { c.APIVersion = "2024-01-01" }, "must start with"},
		{"concurrency", func(c *Config) { c.Concurrency = -1 }, "concurrency must be >= 1"},
		{"timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout must not be negative"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			require.NoError(t, c.Validate())

			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	c.Sanity = SanityConfig{ProjectID: "file", Dataset: "file", TokenFile: "/tmp/token"}

	env := map[string]string{EnvProjectID: "env-project", EnvToken: "env-token"}
	c.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, SanityConfig{ProjectID: "env-project", Dataset: "file", Token: "env-token"}, c.Sanity)
}

func TestCredentials_TokenFile(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("  sk-from-file  \nignored\n"), 0o600))

	c := Default()
	c.Sanity = SanityConfig{ProjectID: "p", Dataset: "d", TokenFile: tokenPath}
	c.ApplyEnv(noEnv)

	creds, err := c.Credentials()
	require.NoError(t, err)
	assert.Equal(t, mutation.Credentials{ProjectID: "p", Dataset: "d", Token: "sk-from-file"}, creds)
}

func TestCredentials_InlineTokenWins(t *testing.T) {
	c := Default()
	c.Sanity = SanityConfig{ProjectID: "p", Dataset: "d", Token: "inline", TokenFile: "/does/not/exist"}

	creds, err := c.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "inline", creds.Token)
}

func TestCredentials_Errors(t *testing.T) {
	c := Default()
	c.Sanity = SanityConfig{ProjectID: "p", Dataset: "d", TokenFile: "/does/not/exist"}

	_, err := c.Credentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read token file")

	c.Sanity = SanityConfig{ProjectID: "p"}

	_, err = c.Credentials()
	assert.ErrorIs(t, err, mutation.ErrInvalidCredentials)
}
