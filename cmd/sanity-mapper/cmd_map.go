package main

import (
	"github.com/spf13/cobra"

	"sanity-mapper/internal/pipeline"
)

func newMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map input items to documents and print them",
		Example: "  sanity-mapper map --schema post.json --rules rules.yaml -i items.json\n" +
			"  cat items.ndjson | sanity-mapper map --rules rules.yaml -o ndjson",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMap(cmd)
		},
	}

	addMapFlags(cmd)

	return cmd
}

func (a *app) runMap(cmd *cobra.Command) error {
	a.applyMapFlags(cmd)

	if err := a.validateConfig(); err != nil {
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

	results, err := a.newRunner(idx, rules).Run(cmd.Context(), items)
	if err != nil {
		return a.fail("Mapping failed", err.Error(), map[string]string{"schema": idx.Name()},
			"Fix the failing rule or pass --continue-on-fail to keep going")
	}

	if err := writeOutput(cmd, a.cfg.Output, pipeline.Outputs(results)); err != nil {
		return a.fail("Could not write output", err.Error(), nil)
	}

	a.report("mapped", results)

	return nil
}

// report prints a one-line summary of a run.
func (a *app) report(verb string, results []pipeline.Result) {
	if failed := pipeline.Failures(results); failed > 0 {
		a.printer.Warning("%s %d of %d item(s), %d failed", verb, len(results)-failed, len(results), failed)
		return
	}

	a.printer.Success("%s %d item(s)", verb, len(results))
}
