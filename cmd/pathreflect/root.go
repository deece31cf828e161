package main

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/spf13/cobra"

	"pathreflect/config"
	"pathreflect/reflector"
	"pathreflect/registry"
)

// app holds the flags and the objects built from them before a command runs.
type app struct {
	configPath string
	logLevel   string
	suffix     string
	dump       bool

	cfg    *config.Config
	logger *slog.Logger
	refl   *reflector.Reflector
	types  *registry.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pathreflect",
		Short: "Inspect and edit Go values through property paths",
		Long: `pathreflect resolves dotted property paths such as Posts.Comments.Member.Name
against the example object models, lists every leaf path of a type, builds
accessor expressions and reads or writes values in YAML documents.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.suffix, "suffix", "", "collection suffix of extracted paths, e.g. []")
	flags.BoolVar(&a.dump, "dump", false, "print values with spew")

	root.AddCommand(
		a.typesCmd(),
		a.pathsCmd(),
		a.resolveCmd(),
		a.checkCmd(),
		a.exprCmd(),
		a.getCmd(),
		a.setCmd(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()

	if a.configPath != "" {
		loaded, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	if cmd.Flags().Changed("suffix") {
		cfg.CollectionSuffix = a.suffix
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))

	opts, err := cfg.ReflectorOptions()
	if err != nil {
		return err
	}

	a.refl, err = reflector.New(append(opts, reflector.WithLogger(a.logger))...)
	if err != nil {
		return err
	}

	a.types, err = knownTypes()
	if err != nil {
		return err
	}

	a.logger.Debug("configured",
		slog.String("config", a.configPath),
		slog.String("suffix", cfg.CollectionSuffix),
		slog.Int("types", a.types.Count()),
	)

	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.refl == nil {
		return nil
	}

	return a.refl.Close()
}

func (a *app) lookup(id string) (reflect.Type, error) {
	t, err := a.types.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("%w (run \"pathreflect types\" for the list)", err)
	}

	return t, nil
}
