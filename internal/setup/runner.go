package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrDryRun is returned by DryRunner when a command output is requested.
var ErrDryRun = errors.New("dry run: command not executed")

// Runner executes downstream shell commands.
type Runner interface {
	// Run executes the commands in order, stopping at the first failure.
	Run(ctx context.Context, dir string, commands ...string) error
	// Output executes a single command and returns its trimmed standard output.
	Output(ctx context.Context, dir, command string) (string, error)
}

// ExitError reports a command that ran and exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

// ShellRunner runs commands through an in-process POSIX shell interpreter.
type ShellRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is appended to the process environment.
	Env []string
	// Decorated reports whether output goes to a terminal. When false every
	// command except git and chmod gets --no-ansi.
	Decorated bool
	// Quiet appends --quiet to every command except git and chmod.
	Quiet bool

	logger *log.Logger
}

// NewShellRunner creates a runner writing to the process standard streams.
func NewShellRunner(logger *log.Logger) *ShellRunner {
	return &ShellRunner{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Decorated: true,
		logger:    logger,
	}
}

// Run joins the prepared commands with && and executes them in dir.
func (r *ShellRunner) Run(ctx context.Context, dir string, commands ...string) error {
	if len(commands) == 0 {
		return nil
	}

	line := strings.Join(PrepareCommands(commands, r.Decorated, r.Quiet), " && ")
	if r.logger != nil {
		r.logger.Debug("running commands", "count", len(commands), "dir", dir)
	}
	return r.exec(ctx, dir, line, r.Stdin, r.Stdout, r.Stderr)
}

// Output runs command unmodified and captures its standard output.
func (r *ShellRunner) Output(ctx context.Context, dir, command string) (string, error) {
	var stdout bytes.Buffer
	if err := r.exec(ctx, dir, command, nil, &stdout, io.Discard); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *ShellRunner) exec(ctx context.Context, dir, line string, stdin io.Reader, stdout, stderr io.Writer) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return fmt.Errorf("failed to parse command line: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.StdIO(stdin, stdout, stderr),
		interp.Env(expand.ListEnviron(append(os.Environ(), r.Env...)...)),
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Command: line, Code: int(status)}
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// PrepareCommands appends --no-ansi when the output is not decorated and
// --quiet when quiet, leaving git and chmod commands untouched.
func PrepareCommands(commands []string, decorated, quiet bool) []string {
	out := make([]string, len(commands))
	for i, c := range commands {
		if !keepsFlags(c) {
			if !decorated {
				c += " --no-ansi"
			}
			if quiet {
				c += " --quiet"
			}
		}
		out[i] = c
	}
	return out
}

func keepsFlags(command string) bool {
	return strings.HasPrefix(command, "git") || strings.HasPrefix(command, "chmod")
}

// DryRunner prints the commands it would run.
type DryRunner struct {
	Out io.Writer
	// Display rewrites a command line before printing, e.g. to mask secrets.
	Display func(string) string
}

// NewDryRunner creates a dry runner printing to out.
func NewDryRunner(out io.Writer) *DryRunner {
	return &DryRunner{Out: out}
}

// Run prints every command, one per line.
func (r *DryRunner) Run(_ context.Context, dir string, commands ...string) error {
	for _, c := range commands {
		if r.Display != nil {
			c = r.Display(c)
		}
		var err error
		if dir != "" {
			_, err = fmt.Fprintf(r.Out, "(cd %s) %s\n", dir, c)
		} else {
			_, err = fmt.Fprintln(r.Out, c)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Output never runs the command.
func (r *DryRunner) Output(context.Context, string, string) (string, error) {
	return "", ErrDryRun
}
