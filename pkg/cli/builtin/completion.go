package builtin

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// DefaultShells lists the shells completion scripts can be generated for.
var DefaultShells = []string{"bash", "zsh", "fish", "powershell"}

// CompletionOptions configures the completion command behavior.
type CompletionOptions struct {
	CLIName       string
	EnabledShells []string
	Output        io.Writer
}

// NewCompletionCommand creates a new completion command.
func NewCompletionCommand(opts *CompletionOptions, rootCmd *cobra.Command) *cobra.Command {
	if len(opts.EnabledShells) == 0 {
		opts.EnabledShells = DefaultShells
	}

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate shell completion scripts for %[1]s.

The scripts complete commands, flags and the suggested values of the
installer options, which are discovered at runtime.

Bash:
  $ %[1]s completion bash > ~/.local/share/bash-completion/completions/%[1]s

Zsh:
  $ %[1]s completion zsh > ~/.zsh/completion/_%[1]s
  Then add the following to ~/.zshrc:
  fpath=(~/.zsh/completion $fpath)
  autoload -Uz compinit && compinit

Fish:
  $ %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish

PowerShell:
  $ %[1]s completion powershell > %[1]s.ps1`, opts.CLIName),
		ValidArgs:             opts.EnabledShells,
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Output == nil {
				opts.Output = cmd.OutOrStdout()
			}
			return runCompletion(rootCmd, args[0], opts)
		},
	}

	return cmd
}

// runCompletion generates the completion script for the specified shell.
func runCompletion(rootCmd *cobra.Command, shell string, opts *CompletionOptions) error {
	if !slices.Contains(DefaultShells, shell) {
		return fmt.Errorf("unsupported shell: %s", shell)
	}
	if !slices.Contains(opts.EnabledShells, shell) {
		return fmt.Errorf("completion for %s is not enabled", shell)
	}

	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(opts.Output, true)
	case "zsh":
		return rootCmd.GenZshCompletion(opts.Output)
	case "fish":
		return rootCmd.GenFishCompletion(opts.Output, true)
	default:
		return rootCmd.GenPowerShellCompletionWithDesc(opts.Output)
	}
}

// SetupOutputCompletion completes the --output flag of cmd with formats.
func SetupOutputCompletion(cmd *cobra.Command, formats []string) {
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
}
