package main

import (
	"os"

	"github.com/spf13/cobra"

	"sanity-mapper/internal/config"
	"sanity-mapper/internal/logging"
	"sanity-mapper/internal/printer"
)

// version is set at build time via -ldflags.
var version = "dev"

// app carries state shared by all commands of one invocation.
type app struct {
	configPath string
	cfg        *config.Config
	printer    *printer.Printer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sanity-mapper",
		Short: "Map flat input items onto Sanity documents",
		Long: "sanity-mapper resolves each mapping rule's target field against a Sanity schema,\n" +
			"converts the raw value to the field's canonical shape (slug, reference, image,\n" +
			"file, portable text) and assembles one document per input item.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "Path to a sanity-mapper YAML config")
	f.String("log-level", "", "Log level: debug, info, warn, error")
	f.String("log-format", "", "Log format: text or json")

	root.AddCommand(
		newMapCmd(a),
		newMutateCmd(a),
		newCheckCmd(a),
		newInspectCmd(a),
	)

	return root
}

// setup loads the config, applies flag overrides and initialises logging.
func (a *app) setup(cmd *cobra.Command) error {
	a.printer = printer.New(cmd.ErrOrStderr())

	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return a.fail("Could not load config", err.Error(), map[string]string{"config": a.configPath})
		}

		a.cfg = cfg
	} else {
		a.cfg = config.Default()
		a.cfg.ApplyEnv(os.LookupEnv)
	}

	overrideString(cmd, "log-level", &a.cfg.Log.Level)
	overrideString(cmd, "log-format", &a.cfg.Log.Format)

	level, err := logging.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return a.fail("Invalid log level", err.Error(), nil)
	}

	logging.Init(level, a.cfg.Log.Format, cmd.ErrOrStderr())

	return nil
}

// overrideString copies a string flag into dst when it was set explicitly.
func overrideString(cmd *cobra.Command, name string, dst *string) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String()
	}
}

// overrideBool copies a bool flag into dst when it was set explicitly.
func overrideBool(cmd *cobra.Command, name string, dst *bool) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool(name)
		*dst = v
	}
}

// overrideInt copies an int flag into dst when it was set explicitly.
func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		v, _ := cmd.Flags().GetInt(name)
		*dst = v
	}
}

func (a *app) validateConfig() error {
	if err := a.cfg.Validate(); err != nil {
		return a.fail("Invalid settings", err.Error(), nil)
	}

	return nil
}

// reportedError is an error already printed to the user.
type reportedError struct{ error }

// fail prints a formatted error and returns it marked as reported.
func (a *app) fail(title, explanation string, context map[string]string, suggestions ...string) error {
	return reportedError{a.printer.Error(title, explanation, context, suggestions...)}
}
