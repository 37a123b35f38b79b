// Package main implements the maginium installer CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maginium/installer/internal/app"
	"github.com/maginium/installer/internal/commands"
	"github.com/maginium/installer/pkg/cli/builtin"
	"github.com/maginium/installer/pkg/config"
	"github.com/maginium/installer/pkg/logging"
	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/registry"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is set at build time
	version = "dev"
	// BuildDate is set at build time, RFC 3339
	buildDate = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	verbose bool
	debug   bool
	noColor bool
	base    string
	config  string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")
	fs.BoolVar(&g.debug, "debug", false, "Enable debug mode")
	fs.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	fs.StringVar(&g.base, "base", "", "Scaffold directory to discover commands and configurations from")
	fs.StringVar(&g.config, "config", "", "Settings file (default $XDG_CONFIG_HOME/maginium/config.yaml)")
}

// parseGlobalFlags reads the global flags ahead of cobra. The scaffold has to
// be discovered before the command tree, and so before cobra parses anything.
func parseGlobalFlags(args []string) *globalFlags {
	g := &globalFlags{}
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	g.register(fs)
	_ = fs.Parse(args)
	return g
}

func run(args []string) error {
	g := parseGlobalFlags(args)
	if g.noColor {
		pterm.DisableColor()
	}

	loader := newLoader(g)
	a, err := newApp(g, loader, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	if err := a.Bootstrap(commands.Factories(a)); err != nil {
		return err
	}

	root, err := newRootCmd(a, loader)
	if err != nil {
		return err
	}
	root.SetArgs(args)
	return root.Execute()
}

func newLoader(g *globalFlags) *config.Loader {
	loader := config.NewLoader(app.CLIName)
	if g.config != "" {
		loader = loader.WithConfigPath(g.config)
	}
	return loader
}

// newApp loads the settings and builds the application.
func newApp(g *globalFlags, loader *config.Loader, stdout, stderr io.Writer) (*app.App, error) {
	settings, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if g.base != "" {
		settings.BasePath = g.base
	}

	return app.New(app.Dependencies{
		Settings: settings,
		Logger:   logging.New(logging.LevelFor(g.debug, g.verbose, settings.LogLevel), stderr),
		Stdout:   stdout,
		Stderr:   stderr,
	})
}

// preparer is implemented by commands that finish their definition once
// attached to the root command.
type preparer interface {
	Prepare() error
}

func newRootCmd(a *app.App, loader *config.Loader) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   app.CLIName,
		Short: "Maginium - Install and set up new Maginium projects",
		Long: `Maginium installs new projects and walks through their setup.

The options of every command come from the configuration fragments of the
scaffold, so the installer follows whatever the scaffold declares.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)

	// Bound for help and validation only; the values were read by parseGlobalFlags.
	(&globalFlags{}).register(cmd.PersistentFlags())

	for _, def := range a.Commands.Commands() {
		cmd.AddCommand(def.Command.Definition())
		if p, ok := def.Command.(preparer); ok {
			if err := p.Prepare(); err != nil {
				return nil, fmt.Errorf("%s: %w", def.Source, err)
			}
		}
	}

	addBuiltin(cmd, a, builtin.NewConfigsCommand(&builtin.ConfigsOptions{
		Load: func() (*registry.ConfigurationRegistry, *options.Set, error) {
			set, err := a.BuildOptions()
			return a.Configs, set, err
		},
	}))
	addBuiltin(cmd, a, builtin.NewConfigCommand(&builtin.ConfigOptions{
		Loader:   loader,
		Settings: a.Settings,
	}))
	addBuiltin(cmd, a, builtin.NewVersionCommand(&builtin.VersionOptions{
		Version:   version,
		BuildTime: parseBuildDate(buildDate),
		Counts:    a.Counts,
	}))
	addBuiltin(cmd, a, builtin.NewCompletionCommand(&builtin.CompletionOptions{
		CLIName: app.CLIName,
	}, cmd))

	return cmd, nil
}

// addBuiltin adds sub unless a discovered command already has its name.
func addBuiltin(root *cobra.Command, a *app.App, sub *cobra.Command) {
	if a.Commands.HasCommand(sub.Name()) {
		a.Logger.Debug("builtin shadowed by discovered command", "command", sub.Name())
		return
	}
	root.AddCommand(sub)
}

func parseBuildDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
