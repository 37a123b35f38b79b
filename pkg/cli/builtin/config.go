package builtin

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/maginium/installer/pkg/config"
	"github.com/maginium/installer/pkg/output"
	"github.com/spf13/cobra"
)

// ErrConfigExists is returned by config init when the settings file exists.
var ErrConfigExists = errors.New("settings file already exists")

// ConfigOptions configures the config command group.
type ConfigOptions struct {
	Loader *config.Loader
	// Settings are the effective settings of this run, shown by config show.
	Settings *config.Settings
	Output   io.Writer
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(opts *ConfigOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the installer settings",
		Long: `Manage the installer settings.

Settings are read from the user settings file and from ` + opts.Loader.EnvPrefix() + `_*
environment variables, which take precedence over the file.`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newConfigPathCommand(opts))
	cmd.AddCommand(newConfigShowCommand(opts))
	cmd.AddCommand(newConfigInitCommand(opts))

	return cmd
}

func newConfigPathCommand(opts *ConfigOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(configOutput(cmd, opts), opts.Loader.ConfigPath())
			return nil
		},
	}
}

func newConfigShowCommand(opts *ConfigOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := opts.Settings
			if settings == nil {
				loaded, err := opts.Loader.Load()
				if err != nil {
					return err
				}
				settings = loaded
			}
			return output.NewManager().Format(configOutput(cmd, opts), settings, format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format (json|yaml)")
	SetupOutputCompletion(cmd, []string{"json", "yaml"})

	return cmd
}

func newConfigInitCommand(opts *ConfigOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Long: `Write the built-in settings to the user settings file and create the
settings and state directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.Loader.ConfigPath()
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
				}
			}

			if err := opts.Loader.EnsureConfigDirs(); err != nil {
				return err
			}
			if err := opts.Loader.SaveUserConfig(config.Defaults()); err != nil {
				return err
			}

			fmt.Fprintf(configOutput(cmd, opts), "Settings written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")

	return cmd
}

func configOutput(cmd *cobra.Command, opts *ConfigOptions) io.Writer {
	if opts.Output != nil {
		return opts.Output
	}
	return cmd.OutOrStdout()
}
