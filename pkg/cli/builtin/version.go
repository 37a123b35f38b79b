// Package builtin provides the commands every installer build ships with,
// independent of the discovered configuration.
package builtin

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/maginium/installer/pkg/output"
	"github.com/spf13/cobra"
)

// VersionInfo contains version information about the installer.
type VersionInfo struct {
	Version        string    `json:"version" yaml:"version"`
	Built          time.Time `json:"built,omitempty" yaml:"built,omitempty"`
	GoVersion      string    `json:"go_version" yaml:"go_version"`
	Platform       string    `json:"platform" yaml:"platform"`
	Compiler       string    `json:"compiler" yaml:"compiler"`
	Configurations int       `json:"configurations,omitempty" yaml:"configurations,omitempty"`
	Commands       int       `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// VersionOptions configures the version command behavior.
type VersionOptions struct {
	Version   string
	BuildTime time.Time
	// Counts returns the number of registered configuration types and
	// commands. Optional.
	Counts       func() (configurations, commands int)
	OutputFormat string
	Output       io.Writer
}

// NewVersionCommand creates a new version command.
func NewVersionCommand(opts *VersionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for the installer binary.

The version command shows:
- Installer version
- Build information (build time, Go version, platform)
- Number of discovered configuration types and commands`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Output == nil {
				opts.Output = cmd.OutOrStdout()
			}
			return runVersion(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFormat, "output", "o", "text", "Output format (text|json|yaml)")
	SetupOutputCompletion(cmd, []string{"text", "json", "yaml"})

	return cmd
}

// runVersion executes the version command.
func runVersion(opts *VersionOptions) error {
	info := &VersionInfo{
		Version:   opts.Version,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Compiler:  runtime.Compiler,
		Built:     opts.BuildTime,
	}

	if opts.Counts != nil {
		info.Configurations, info.Commands = opts.Counts()
	}

	switch opts.OutputFormat {
	case "json", "yaml":
		return output.NewManager().Format(opts.Output, info, opts.OutputFormat)
	case "text", "":
		return formatVersionText(info, opts.Output)
	default:
		return fmt.Errorf("unknown output format %q", opts.OutputFormat)
	}
}

// formatVersionText formats version info as human-readable text.
func formatVersionText(info *VersionInfo, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "Version: %s\n", info.Version)

	if !info.Built.IsZero() {
		_, _ = fmt.Fprintf(w, "Built: %s\n", info.Built.Format(time.RFC3339))
	}

	_, _ = fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
	_, _ = fmt.Fprintf(w, "Platform: %s\n", info.Platform)
	_, _ = fmt.Fprintf(w, "Compiler: %s\n", info.Compiler)

	if info.Configurations > 0 || info.Commands > 0 {
		_, _ = fmt.Fprintf(w, "Configurations: %d\n", info.Configurations)
		_, _ = fmt.Fprintf(w, "Commands: %d\n", info.Commands)
	}

	return nil
}

// GetVersionShort returns a short version string suitable for --version flag.
func GetVersionShort(version string) string {
	return fmt.Sprintf("v%s", version)
}
