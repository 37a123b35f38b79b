// Package commands implements the installer commands resolved from the
// command units of the scaffold.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/maginium/installer/internal/app"
	"github.com/maginium/installer/internal/builder"
	"github.com/maginium/installer/internal/setup"
	"github.com/maginium/installer/internal/wizard"
	"github.com/maginium/installer/pkg/cli/interactive"
	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/output"
	"github.com/maginium/installer/pkg/progress"
	"github.com/maginium/installer/pkg/registry"
	"github.com/maginium/installer/pkg/secrets"
	"github.com/maginium/installer/pkg/state"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCommandIdentity is the identity declared by the new command unit.
const NewCommandIdentity = `\Maginium\Installer\Commands\NewCommand`

// Flags of the new command besides the generated options.
const (
	FlagNoInteraction = "no-interaction"
	FlagDryRun        = "dry-run"
	FlagOpen          = "open"
	FlagQuiet         = "quiet"
	FlagGit           = "git"
)

// NewCommand installs a new project and runs the installation command.
type NewCommand struct {
	app *app.App
	cmd *cobra.Command

	projectFS afero.Fs
	getwd     func() (string, error)
	prompter  wizard.Prompter
	state     *state.Manager
	runner    setup.Runner
	env       *setup.Environment
	openURL   func(string) error
	decorated func() bool
}

// NewOption configures a NewCommand.
type NewOption func(*NewCommand)

// WithProjectFS sets the filesystem the project directory is checked and created on.
func WithProjectFS(fsys afero.Fs) NewOption {
	return func(c *NewCommand) { c.projectFS = fsys }
}

// WithWorkingDir fixes the directory projects are created in.
func WithWorkingDir(dir string) NewOption {
	return func(c *NewCommand) {
		c.getwd = func() (string, error) { return dir, nil }
	}
}

// WithPrompter replaces the terminal prompter.
func WithPrompter(p wizard.Prompter) NewOption {
	return func(c *NewCommand) { c.prompter = p }
}

// WithState sets the state manager remembering answers and the last project.
func WithState(m *state.Manager) NewOption {
	return func(c *NewCommand) { c.state = m }
}

// WithRunner replaces the runner executing the installation.
func WithRunner(r setup.Runner) NewOption {
	return func(c *NewCommand) { c.runner = r }
}

// WithEnvironment replaces the local environment probe.
func WithEnvironment(env *setup.Environment) NewOption {
	return func(c *NewCommand) { c.env = env }
}

// WithOpener replaces the function opening the application URL.
func WithOpener(fn func(string) error) NewOption {
	return func(c *NewCommand) { c.openURL = fn }
}

// Factories returns the factory table resolving command units to commands
// bound to a.
func Factories(a *app.App, opts ...NewOption) registry.FactoryTable {
	return registry.FactoryTable{
		NewCommandIdentity: func() registry.Command {
			return NewNewCommand(a, opts...)
		},
	}
}

// NewNewCommand creates the new command. The generated options are added by
// Prepare once the command is attached to its parent.
func NewNewCommand(a *app.App, opts ...NewOption) *NewCommand {
	c := &NewCommand{
		app:       a,
		projectFS: afero.NewOsFs(),
		getwd:     os.Getwd,
		openURL:   open.Run,
		decorated: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cmd = &cobra.Command{
		Use:   "new <name>",
		Short: "Install a new Maginium project and set it up",
		Long: `Install a new Maginium project and set it up.

Every configuration option of the scaffold is available as a flag. Options not
given on the command line are asked for interactively, section by section, and
the answers are passed to the setup:install command of the new project.`,
		Example: `  maginium new shop
  maginium new shop --db-host=db.local --admin-user=root
  maginium new shop --no-interaction --dry-run`,
		RunE: c.run,
	}

	flags := c.cmd.Flags()
	flags.BoolP(FlagNoInteraction, "n", false, "Do not ask any interactive question")
	flags.Bool(FlagDryRun, false, "Print the commands instead of running them")
	flags.Bool(FlagOpen, false, "Open the application in the browser once installed")
	flags.BoolP(FlagQuiet, "q", false, "Do not output any message from the installation")
	flags.Bool(FlagGit, false, "Initialize a Git repository")

	return c
}

// Definition returns the cobra command.
func (c *NewCommand) Definition() *cobra.Command {
	return c.cmd
}

// Prepare builds the option set from the configuration registry and adds it
// to the command.
func (c *NewCommand) Prepare() error {
	set, err := c.app.BuildOptions()
	if err != nil {
		return err
	}
	return builder.Apply(c.cmd, set)
}

func (c *NewCommand) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	flags := cmd.Flags()

	force, _ := flags.GetBool(builder.OptionForce)
	noInteraction, _ := flags.GetBool(FlagNoInteraction)
	dryRun, _ := flags.GetBool(FlagDryRun)
	openApp, _ := flags.GetBool(FlagOpen)
	quiet, _ := flags.GetBool(FlagQuiet)
	initGit, _ := flags.GetBool(FlagGit)

	name := setup.SanitizeName(args[0])
	if err := setup.VerifyName(name); err != nil {
		return err
	}
	if err := setup.VerifyForce(name, force); err != nil {
		return err
	}

	cwd, err := c.getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	dir := setup.InstallationDirectory(cwd, name)
	if !force {
		if err := setup.VerifyApplicationDoesntExist(c.projectFS, dir, cwd); err != nil {
			return err
		}
	}

	settings := c.app.Settings
	if c.state == nil {
		m, err := state.NewManager(app.CLIName, settings.RecentLimit)
		if err != nil {
			c.app.Logger.Warn("recent answers unavailable", "error", err)
		}
		c.state = m
	}

	if !noInteraction {
		renderBanner(out)
	}

	detector := secrets.MustDetector()
	cfg := wizard.Config{
		Registry:      c.app.Configs,
		Prompter:      c.prompter,
		Loader:        interactive.NewOptionLoader(c.app.Catalogs),
		Detector:      detector,
		Logger:        c.app.Logger,
		Output:        out,
		Order:         settings.SectionOrder,
		NoInteraction: noInteraction,
	}
	if cfg.Prompter == nil {
		cfg.Prompter = interactive.NewPrompter(&interactive.PrompterConfig{
			Input:              cmd.InOrStdin(),
			Output:             out,
			DisableInteractive: noInteraction,
		})
	}
	if c.state != nil && settings.RecentLimit > 0 {
		cfg.Memory = c.state
	}

	store := options.NewFlagStore(flags)
	result, err := wizard.New(cfg).Run(store)
	if err != nil {
		return err
	}

	install := (&wizard.CommandBuilder{
		PHPBinary:     settings.PHPBinary,
		MagentoBinary: settings.MagentoBinary,
		Tag:           settings.InstallTag,
		Detector:      detector,
	}).Build(c.app.Configs, store, result.Skipped)

	masking := secrets.DefaultMasking()
	if !quiet {
		if err := renderSummary(out, install, masking); err != nil {
			return err
		}
	}

	runner := c.installRunner(cmd, dryRun, quiet, func(line string) string {
		return detector.MaskString(line, install.SecretValues(), masking)
	})

	if !dryRun {
		if err := c.projectFS.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	// The spinner only shows while the commands themselves are silent.
	indicator := progress.New(&progress.Config{
		Enabled: quiet && !dryRun,
		Writer:  cmd.ErrOrStderr(),
	})

	err = progress.Step(indicator, "Installing Maginium...", "Maginium installed", "Installation failed", func() error {
		return runner.Run(ctx, dir, install.String())
	})
	if err != nil {
		return fmt.Errorf("installation failed: %w", err)
	}

	env := c.environment()
	if initGit {
		branch := env.DefaultBranch(ctx)
		err := progress.Step(indicator, "Initializing Git repository...", "Git repository initialized", "Git initialization failed", func() error {
			return runner.Run(ctx, dir, gitCommands(branch)...)
		})
		if err != nil {
			return fmt.Errorf("failed to initialize git repository: %w", err)
		}
	}

	url := env.GenerateAppURL(ctx, name)
	if c.state != nil {
		if !dryRun {
			c.state.SetLastProject(&state.Project{Name: name, Directory: dir, URL: url})
		}
		if err := c.state.Save(); err != nil {
			c.app.Logger.Warn("failed to save state", "error", err)
		}
	}

	if quiet {
		return nil
	}
	renderNextSteps(out, name, env.IsParkedOnHerdOrValet(ctx, dir), url)

	if openApp && !dryRun {
		if err := c.openURL(url); err != nil {
			c.app.Logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}
	return nil
}

// installRunner selects the runner for the installation commands.
func (c *NewCommand) installRunner(cmd *cobra.Command, dryRun, quiet bool, display func(string) string) setup.Runner {
	if c.runner != nil {
		return c.runner
	}
	if dryRun {
		r := setup.NewDryRunner(cmd.OutOrStdout())
		r.Display = display
		return r
	}
	r := setup.NewShellRunner(c.app.Logger)
	r.Stdin = cmd.InOrStdin()
	r.Stdout = cmd.OutOrStdout()
	r.Stderr = cmd.ErrOrStderr()
	r.Decorated = c.decorated()
	r.Quiet = quiet
	return r
}

func (c *NewCommand) environment() *setup.Environment {
	if c.env != nil {
		return c.env
	}
	r := setup.NewShellRunner(c.app.Logger)
	r.Stdin = nil
	r.Stdout = io.Discard
	r.Stderr = io.Discard
	return setup.NewEnvironment(r)
}

// gitCommands initializes a repository holding the new project.
func gitCommands(branch string) []string {
	return []string{
		"git init -q",
		"git add .",
		`git commit -q -m "Set up a fresh Maginium app"`,
		"git branch -M " + branch,
	}
}

func renderBanner(w io.Writer) {
	banner, err := pterm.DefaultBigText.
		WithLetters(putils.LettersFromStringWithStyle("Maginium", pterm.NewStyle(pterm.FgRed))).
		Srender()
	if err != nil {
		return
	}
	pterm.Fprintln(w, banner)
}

func renderSummary(w io.Writer, install *wizard.InstallCommand, masking *secrets.Masking) error {
	if len(install.Arguments) > 0 {
		table := summaryTable(install.Summary(masking))
		if err := output.NewManager().Format(w, table, "table"); err != nil {
			return err
		}
	}
	pterm.Fprintln(w, pterm.Gray(install.Masked(masking)))
	return nil
}

// summaryTable lists the installation arguments as OPTION/VALUE rows.
type summaryTable [][]string

func (t summaryTable) Header() []string { return []string{"OPTION", "VALUE"} }

func (t summaryTable) Rows() [][]string { return t }

func renderNextSteps(w io.Writer, name string, parked bool, url string) {
	pterm.Fprintln(w)
	pterm.Fprintln(w, pterm.Info.Sprintf("Application ready in [%s]. Start your local development with:", name))
	pterm.Fprintln(w)
	pterm.Fprintln(w, pterm.Gray("➜"), pterm.Bold.Sprint("cd "+name))
	if parked {
		pterm.Fprintln(w, pterm.Gray("➜"), "Open:", pterm.Bold.Sprint(url))
	} else {
		pterm.Fprintln(w, pterm.Gray("➜"), pterm.Bold.Sprint("bin/magento setup:upgrade"))
	}
	pterm.Fprintln(w)
}
