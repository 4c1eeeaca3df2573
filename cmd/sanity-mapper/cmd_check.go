package main

import (
	"github.com/spf13/cobra"

	"sanity-mapper/internal/mapping"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check mapping rules against the schema, and optionally the credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCheck(cmd)
		},
	}

	addRulesFlags(cmd)
	addCredentialFlags(cmd)
	cmd.Flags().Bool("credentials", false, "Also send a test query with the configured credentials")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command) error {
	overrideString(cmd, "schema", &a.cfg.Schema)
	overrideString(cmd, "rules", &a.cfg.Mappings)
	a.applyCredentialFlags(cmd)

	idx, rules, err := a.loadInputs()
	if err != nil {
		return err
	}

	diags := mapping.Validate(rules, idx)
	a.printer.Diagnostics(diags)

	if withCreds, _ := cmd.Flags().GetBool("credentials"); withCreds {
		client, err := a.newClient(cmd)
		if err != nil {
			return err
		}

		if err := client.TestCredentials(cmd.Context()); err != nil {
			return a.fail("Credential test failed", err.Error(), map[string]string{
				"project": a.cfg.Sanity.ProjectID,
				"dataset": a.cfg.Sanity.Dataset,
			}, mutationHints(err)...)
		}

		a.printer.Success("credentials accepted for %s/%s", a.cfg.Sanity.ProjectID, a.cfg.Sanity.Dataset)
	}

	if err := diags.Error(); err != nil {
		return reportedError{err}
	}

	return nil
}
