package main

import (
	"github.com/spf13/cobra"

	"sanity-mapper/internal/logging"
	"sanity-mapper/internal/mutation"
	"sanity-mapper/internal/pipeline"
)

func newMutateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutate",
		Short: "Map input items and write each document with the Mutations API",
		Example: "  SANITY_TOKEN=sk... sanity-mapper mutate --project-id abc123 --dataset production \\\n" +
			"    --rules rules.yaml -i items.ndjson --operation createOrReplace --id-field sku",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMutate(cmd)
		},
	}

	addMapFlags(cmd)
	addCredentialFlags(cmd)

	f := cmd.Flags()
	f.String("operation", "", "create, createIfNotExists, createOrReplace, delete or patch")
	f.String("id-field", "", "Item field holding the document ID")
	f.Bool("generate-ids", false, "Generate a UUID when a create-style operation has no ID")
	f.Bool("return-documents", false, "Ask the API to return the written documents")
	f.Int("concurrency", 0, "Number of requests in flight")

	return cmd
}

func (a *app) runMutate(cmd *cobra.Command) error {
	a.applyMapFlags(cmd)
	a.applyCredentialFlags(cmd)
	overrideString(cmd, "operation", &a.cfg.Operation)
	overrideString(cmd, "id-field", &a.cfg.IDField)
	overrideBool(cmd, "generate-ids", &a.cfg.GenerateIDs)
	overrideBool(cmd, "return-documents", &a.cfg.ReturnDocuments)
	overrideInt(cmd, "concurrency", &a.cfg.Concurrency)

	if err := a.validateConfig(); err != nil {
		return err
	}

	client, err := a.newClient(cmd)
	if err != nil {
		return err
	}

	idx, rules, err := a.loadInputs()
	if err != nil {
		return err
	}

	items, err := a.readItems(cmd)
	if err != nil {
		return err
	}

	op, _ := mutation.ParseOperation(a.cfg.Operation)

	a.printer.Step("%s %d item(s) into %s/%s", op, len(items), a.cfg.Sanity.ProjectID, a.cfg.Sanity.Dataset)

	sink := &pipeline.MutationSink{
		Client:          client,
		Operation:       op,
		IDField:         a.cfg.IDField,
		GenerateIDs:     a.cfg.GenerateIDs,
		ReturnDocuments: a.cfg.ReturnDocuments,
	}

	results, err := a.newRunner(idx, rules,
		pipeline.WithSink(sink),
		pipeline.WithConcurrency(a.cfg.Concurrency),
	).Run(cmd.Context(), items)
	if err != nil {
		return a.fail("Mutation failed", err.Error(), map[string]string{"operation": string(op)},
			mutationHints(err)...)
	}

	if err := writeOutput(cmd, a.cfg.Output, results); err != nil {
		return a.fail("Could not write output", err.Error(), nil)
	}

	a.report(string(op), results)

	return nil
}

// newClient builds a mutation client from the resolved credentials.
func (a *app) newClient(cmd *cobra.Command) (*mutation.Client, error) {
	creds, err := a.cfg.Credentials()
	if err != nil {
		return nil, a.fail("Credentials are not valid", err.Error(), nil,
			"Set SANITY_PROJECT_ID, SANITY_DATASET and SANITY_TOKEN",
			"Pass --project-id, --dataset and --token-file")
	}

	opts := []mutation.Option{
		mutation.WithAPIVersion(a.cfg.APIVersion),
		mutation.WithTimeout(a.cfg.Timeout),
		mutation.WithLogger(logging.New("mutation")),
	}

	if base, _ := cmd.Flags().GetString("base-url"); base != "" {
		opts = append(opts, mutation.WithBaseURL(base))
	}

	client, err := mutation.New(creds, opts...)
	if err != nil {
		return nil, a.fail("Could not create API client", err.Error(), nil)
	}

	logging.New("mutation").Debug("client ready",
		"project", creds.ProjectID, "dataset", creds.Dataset, "api_version", client.APIVersion())

	return client, nil
}

func mutationHints(err error) []string {
	switch {
	case mutation.IsUnauthorized(err):
		return []string{"Check the token is valid: sanity-mapper check --credentials"}
	case mutation.IsForbidden(err):
		return []string{"Use a token with write permission for this dataset"}
	case mutation.IsNotFound(err):
		return []string{"Check the project ID and dataset name"}
	case mutation.IsConflict(err):
		return []string{"Use createOrReplace or createIfNotExists for documents that may exist"}
	default:
		return []string{"Pass --continue-on-fail to record failed items and keep going"}
	}
}
