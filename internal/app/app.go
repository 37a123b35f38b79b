// Package app is the composition root of the installer. It owns the settings,
// the registries and the catalogs, and populates the registries from the
// scaffold tree during Bootstrap.
package app

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	installer "github.com/maginium/installer"
	"github.com/maginium/installer/internal/builder"
	"github.com/maginium/installer/internal/discovery"
	"github.com/maginium/installer/pkg/catalog"
	"github.com/maginium/installer/pkg/config"
	"github.com/maginium/installer/pkg/logging"
	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/afero"
)

// CLIName is the binary name, used for the config and state directories.
const CLIName = "maginium"

type (
	// App wires the registries and shared services. Commands receive an App
	// reference when the factory table is built.
	App struct {
		Settings *config.Settings
		Configs  *registry.ConfigurationRegistry
		Commands *registry.CommandRegistry
		Catalogs map[string]catalog.Catalog
		Logger   *log.Logger
		FS       afero.Fs
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by New.
	Dependencies struct {
		Settings *config.Settings
		Catalogs map[string]catalog.Catalog
		Logger   *log.Logger
		// FS is the scaffold tree. Nil selects ScaffoldFS(Settings.BasePath).
		FS     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
	}
)

// New builds an App with empty registries.
func New(deps Dependencies) (*App, error) {
	a := &App{
		Settings: deps.Settings,
		Configs:  registry.NewConfigurationRegistry(),
		Commands: registry.NewCommandRegistry(),
		Catalogs: deps.Catalogs,
		Logger:   deps.Logger,
		FS:       deps.FS,
		Stdout:   deps.Stdout,
		Stderr:   deps.Stderr,
	}

	if a.Settings == nil {
		a.Settings = config.Defaults()
	}
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}
	if a.Logger == nil {
		a.Logger = logging.New(a.Settings.LogLevel, a.Stderr)
	}
	if a.FS == nil {
		fsys, err := ScaffoldFS(a.Settings.BasePath)
		if err != nil {
			return nil, err
		}
		a.FS = fsys
	}
	if a.Catalogs == nil {
		catalogs, err := catalog.LoadAll()
		if err != nil {
			return nil, err
		}
		a.Catalogs = catalogs
	}

	return a, nil
}

// ScaffoldFS returns the scaffold tree: the embedded one when base is empty,
// otherwise the directory base on disk.
func ScaffoldFS(base string) (afero.Fs, error) {
	if base == "" {
		return afero.FromIOFS{FS: installer.Scaffold}, nil
	}

	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid base path: %s: %w", base, fs.ErrInvalid)
	}
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), base)), nil
}

// Bootstrap registers the configuration fragments and then the command units.
// Configurations come first so that commands can build their options from the
// populated registry.
func (a *App) Bootstrap(factories registry.FactoryTable) error {
	configs := discovery.New(a.FS, a.Settings.ConfigExtension, discovery.WithLogger(a.Logger))
	n, err := configs.RegisterConfigs(a.Configs, a.Settings.ConfigPatterns)
	if err != nil {
		return fmt.Errorf("failed to register configurations: %w", err)
	}
	a.Logger.Debug("configurations registered", "files", n, "types", a.Configs.Len())

	commands := discovery.New(a.FS, a.Settings.CommandExtension, discovery.WithLogger(a.Logger))
	n, err = commands.RegisterCommands(a.Commands, factories, a.Settings.CommandPatterns)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	a.Logger.Debug("commands registered", "count", n)

	return nil
}

// BuildOptions projects the configuration registry into the option set of the
// installer command.
func (a *App) BuildOptions() (*options.Set, error) {
	return builder.NewOptionBuilder(nil).Build(a.Configs)
}

// Counts returns the number of configuration types and commands registered.
func (a *App) Counts() (int, int) {
	return a.Configs.Len(), a.Commands.Len()
}
