package main

import (
	"strings"

	"github.com/spf13/cobra"

	"sanity-mapper/internal/printer"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List schema fields and how rule paths resolve against them",
		Example: "  sanity-mapper inspect --schema post.json\n" +
			"  sanity-mapper inspect --schema post.json --path slug.current --path author",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInspect(cmd)
		},
	}

	addSchemaFlag(cmd)
	cmd.Flags().StringSlice("path", nil, "Resolve these rule paths instead of listing fields")

	return cmd
}

func (a *app) runInspect(cmd *cobra.Command) error {
	overrideString(cmd, "schema", &a.cfg.Schema)

	idx, err := a.loadSchema(a.cfg.Schema)
	if err != nil {
		return err
	}

	out := printer.New(cmd.OutOrStdout())

	if paths, _ := cmd.Flags().GetStringSlice("path"); len(paths) > 0 {
		rows := make([][2]string, len(paths))
		for i, p := range paths {
			rows[i] = [2]string{p, idx.ResolveType(p).String()}
		}

		out.Table([2]string{"PATH", "RESOLVES TO"}, rows)

		return nil
	}

	out.Info("%s (%d fields)", idx.Name(), len(idx.Fields()))

	fields := idx.Fields()
	rows := make([][2]string, len(fields))

	for i, f := range fields {
		declared := f.Type
		if len(f.Of) > 0 {
			of := make([]string, len(f.Of))
			for j, d := range f.Of {
				of[j] = d.Type
			}

			declared += " of " + strings.Join(of, ", ")
		}

		resolved := declared + " → " + idx.ResolveType(f.Name).String()
		if !idx.Kind(f.Name).IsRecognized() {
			resolved += " (passed through)"
		}

		rows[i] = [2]string{f.Name, resolved}
	}

	out.Table([2]string{"FIELD", "TYPE"}, rows)

	return nil
}
