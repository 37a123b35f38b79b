// Package setup provides the filesystem and environment helpers of the
// installer command and the runners executing downstream commands.
package setup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// CurrentDirectory is the project name installing into the working directory.
const CurrentDirectory = "."

// DefaultTLD is used when neither Herd nor Valet reports one.
const DefaultTLD = "test"

// DefaultBranchName is used when git has no init.defaultBranch.
const DefaultBranchName = "main"

var (
	// ErrApplicationExists is returned when the installation directory exists.
	ErrApplicationExists = errors.New("application already exists")
	// ErrForceCurrentDirectory is returned when --force targets the working directory.
	ErrForceCurrentDirectory = errors.New("cannot use --force option when using current directory for installation")
	// ErrEmptyName is returned when nothing is left of the project name.
	ErrEmptyName = errors.New("project name is empty")
)

// SanitizeName trims trailing slashes and backslashes from the project name.
func SanitizeName(name string) string {
	return strings.TrimRight(name, `/\`)
}

// VerifyName fails when a sanitized name is empty, so that a name such as "/"
// never resolves to the working directory.
func VerifyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// InstallationDirectory returns the directory the project is installed into.
func InstallationDirectory(cwd, name string) string {
	if name == CurrentDirectory {
		return CurrentDirectory
	}
	return filepath.Join(cwd, name)
}

// VerifyApplicationDoesntExist fails when dir exists and is not cwd.
func VerifyApplicationDoesntExist(fsys afero.Fs, dir, cwd string) error {
	if dir == CurrentDirectory || filepath.Clean(dir) == filepath.Clean(cwd) {
		return nil
	}
	exists, err := afero.Exists(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", dir, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrApplicationExists, dir)
	}
	return nil
}

// VerifyForce refuses --force for the working directory.
func VerifyForce(name string, force bool) error {
	if force && name == CurrentDirectory {
		return ErrForceCurrentDirectory
	}
	return nil
}

// Resolver looks up host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Environment queries the local toolchain through a Runner.
type Environment struct {
	Runner   Runner
	Resolver Resolver
}

// NewEnvironment creates an environment using the default resolver.
func NewEnvironment(r Runner) *Environment {
	return &Environment{Runner: r, Resolver: net.DefaultResolver}
}

// DefaultBranch returns git's init.defaultBranch or main.
func (e *Environment) DefaultBranch(ctx context.Context) string {
	out, err := e.Runner.Output(ctx, "", "git config --global init.defaultBranch")
	if err != nil || out == "" {
		return DefaultBranchName
	}
	return out
}

// TLD returns the top level domain served by Herd or Valet, or test.
func (e *Environment) TLD(ctx context.Context) string {
	if out, ok := e.onHerdOrValet(ctx, "tld"); ok && out != "" {
		return out
	}
	return DefaultTLD
}

// GenerateAppURL returns http://<name>.<tld> when the host resolves and
// http://localhost otherwise.
func (e *Environment) GenerateAppURL(ctx context.Context, name string) string {
	host := strings.ToLower(name) + "." + e.TLD(ctx)
	if e.Resolver != nil {
		if addrs, err := e.Resolver.LookupHost(ctx, host); err == nil && len(addrs) > 0 {
			return "http://" + host
		}
	}
	return "http://localhost"
}

// IsParkedOnHerdOrValet reports whether the parent of dir is a parked path.
func (e *Environment) IsParkedOnHerdOrValet(ctx context.Context, dir string) bool {
	out, ok := e.onHerdOrValet(ctx, "paths")
	if !ok || !gjson.Valid(out) {
		return false
	}

	parent := path.Dir(filepath.ToSlash(dir))
	for _, p := range gjson.Parse(out).Array() {
		if path.Clean(filepath.ToSlash(p.String())) == parent {
			return true
		}
	}
	return false
}

// onHerdOrValet runs command on herd, then valet, returning the first success.
func (e *Environment) onHerdOrValet(ctx context.Context, command string) (string, bool) {
	for _, tool := range []string{"herd", "valet"} {
		out, err := e.Runner.Output(ctx, "", tool+" "+command+" -v")
		if err == nil {
			return out, true
		}
	}
	return "", false
}
