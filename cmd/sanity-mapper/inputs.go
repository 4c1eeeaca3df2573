package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sanity-mapper/internal/document"
	"sanity-mapper/internal/logging"
	"sanity-mapper/internal/mapping"
	"sanity-mapper/internal/mutation"
	"sanity-mapper/internal/output"
	"sanity-mapper/internal/pipeline"
	"sanity-mapper/internal/schema"
	"sanity-mapper/internal/transform"
)

func addSchemaFlag(cmd *cobra.Command) {
	cmd.Flags().String("schema", "", "Schema JSON file (defaults to the rule file's schema:)")
}

func addRulesFlags(cmd *cobra.Command) {
	addSchemaFlag(cmd)
	cmd.Flags().String("rules", "", "Mapping rule file (YAML or JSON)")
}

func addMapFlags(cmd *cobra.Command) {
	addRulesFlags(cmd)

	f := cmd.Flags()
	f.StringP("input", "i", "-", "Input items: JSON array or NDJSON file, - for stdin")
	f.StringP("output", "o", "", "Output format: json, ndjson, yaml, cbor")
	f.String("out", "", "Write output to this file instead of stdout")
	f.Bool("literal-slug-paths", false, "Write slug sub-path rules at their literal path")
	f.Bool("continue-on-fail", false, "Record failed items as {error} results and keep going")
	f.Bool("deterministic-keys", false, "Number portable text block keys so reruns produce identical output")
}

func (a *app) applyMapFlags(cmd *cobra.Command) {
	overrideString(cmd, "schema", &a.cfg.Schema)
	overrideString(cmd, "rules", &a.cfg.Mappings)
	overrideString(cmd, "output", &a.cfg.Output)
	overrideBool(cmd, "literal-slug-paths", &a.cfg.LiteralSlugPaths)
	overrideBool(cmd, "continue-on-fail", &a.cfg.ContinueOnFail)
	overrideBool(cmd, "deterministic-keys", &a.cfg.DeterministicKeys)
}

func addCredentialFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("project-id", "", "Sanity project ID (or SANITY_PROJECT_ID)")
	f.String("dataset", "", "Sanity dataset (or SANITY_DATASET)")
	f.String("token-file", "", "File holding the API token (or SANITY_TOKEN)")
	f.String("api-version", "", "Mutations API version, e.g. "+mutation.DefaultAPIVersion)
	f.Duration("timeout", 0, "Per-request timeout, e.g. 30s")
	f.String("base-url", "", "Override https://{project}.api.sanity.io")
	_ = f.MarkHidden("base-url")
}

func (a *app) applyCredentialFlags(cmd *cobra.Command) {
	overrideString(cmd, "project-id", &a.cfg.Sanity.ProjectID)
	overrideString(cmd, "dataset", &a.cfg.Sanity.Dataset)
	overrideString(cmd, "api-version", &a.cfg.APIVersion)

	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		a.cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	if f := cmd.Flags().Lookup("token-file"); f != nil && f.Changed {
		a.cfg.Sanity.TokenFile = f.Value.String()
		a.cfg.Sanity.Token = ""

		// the environment still wins over files
		a.cfg.ApplyEnv(os.LookupEnv)
	}
}

// loadSchema reads the schema file named by the config.
func (a *app) loadSchema(path string) (*schema.Index, error) {
	if path == "" {
		return nil, a.fail("No schema", "No schema file was given.", nil,
			"Pass --schema <file>",
			"Add schema: to the rule file or config")
	}

	idx, err := schema.LoadFile(path)
	if err != nil {
		return nil, a.fail("Schema invalid", err.Error(), map[string]string{"schema": path},
			"Check the file is JSON of the form {\"name\": ..., \"fields\": [{\"name\": ..., \"type\": ...}]}")
	}

	return idx, nil
}

// loadInputs reads the rule file, then the schema it or the config names.
func (a *app) loadInputs() (*schema.Index, []mapping.Rule, error) {
	if a.cfg.Mappings == "" {
		return nil, nil, a.fail("No mapping rules", "No rule file was given.", nil,
			"Pass --rules <file>",
			"Set mappings: in the config file")
	}

	rf, err := mapping.LoadFile(a.cfg.Mappings)
	if err != nil {
		return nil, nil, a.fail("Could not load mapping rules", err.Error(),
			map[string]string{"rules": a.cfg.Mappings})
	}

	logging.New("rules").Debug("mapping rules loaded", "file", a.cfg.Mappings, "paths", rf.Rules.Paths())

	schemaPath := a.cfg.Schema
	if schemaPath == "" {
		schemaPath = rf.Schema
	}

	idx, err := a.loadSchema(schemaPath)
	if err != nil {
		return nil, nil, err
	}

	return idx, rf.Rules, nil
}

func (a *app) readItems(cmd *cobra.Command) ([]pipeline.Item, error) {
	path, _ := cmd.Flags().GetString("input")

	var (
		items []pipeline.Item
		err   error
	)

	if path == "-" {
		items, err = pipeline.ReadItems(cmd.InOrStdin())
	} else {
		items, err = pipeline.ReadItemsFile(path)
	}

	if err != nil {
		return nil, a.fail("Could not read input items", err.Error(), map[string]string{"input": path})
	}

	return items, nil
}

func (a *app) newRunner(idx *schema.Index, rules []mapping.Rule, opts ...pipeline.Option) *pipeline.Runner {
	base := []pipeline.Option{
		pipeline.WithContinueOnFail(a.cfg.ContinueOnFail),
		pipeline.WithBuilderOptions(document.WithLiteralSlugPaths(a.cfg.LiteralSlugPaths)),
		pipeline.WithLogger(logging.New("pipeline")),
	}

	if a.cfg.DeterministicKeys {
		keys := transform.New(transform.WithKeyGenerator(&transform.CounterKeys{}))
		base = append(base, pipeline.WithBuilderOptions(document.WithTransformer(keys)))
	}

	return pipeline.New(idx, rules, append(base, opts...)...)
}

// writeOutput encodes values to --out or stdout in the configured format.
func writeOutput[T any](cmd *cobra.Command, format string, values []T) (err error) {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		var file *os.File

		file, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}

		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()

		w = file
	}

	return output.WriteAll(w, f, values)
}
