// Package discovery finds configuration fragments and command units under the
// scaffold tree and loads them into the registries.
package discovery

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/maginium/installer/pkg/logging"
	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/afero"
)

// Default discovery patterns, relative to the base of the scaffold tree.
var (
	DefaultConfigPatterns  = []string{"src/Configs", "src/Configs/*/*", "src/Configs/**"}
	DefaultCommandPatterns = []string{"src/Commands", "src/Commands/*/*", "src/Commands/**"}
)

// Default file extensions.
const (
	ConfigExtension  = ".json"
	CommandExtension = ".php"
)

// Discoverer finds files with one extension under a list of directory patterns.
type Discoverer struct {
	fs        afero.Fs
	extension string
	logger    *log.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLogger sets the logger used to report skipped and registered units.
func WithLogger(logger *log.Logger) Option {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a discoverer over fsys, which is rooted at the base directory.
func New(fsys afero.Fs, extension string, opts ...Option) *Discoverer {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	d := &Discoverer{
		fs:        fsys,
		extension: extension,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Extension returns the file extension the discoverer matches.
func (d *Discoverer) Extension() string {
	return d.extension
}

// Discover expands every pattern to directories and walks each one for files
// with the discoverer's extension. Paths are returned once each, in the order
// they were first found. Finding nothing at all is ErrDiscoveryExhausted.
func (d *Discoverer) Discover(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		dirs, err := d.expand(pattern)
		if err != nil {
			return nil, err
		}

		for _, dir := range dirs {
			err := afero.Walk(d.fs, dir, func(p string, info fs.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() || !d.matches(p) {
					return nil
				}
				p = path.Clean(p)
				if _, ok := seen[p]; ok {
					return nil
				}
				seen[p] = struct{}{}
				files = append(files, p)
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %s files under %s", registry.ErrDiscoveryExhausted, d.extension, strings.Join(patterns, ", "))
	}

	d.logger.Debug("discovered files", "extension", d.extension, "count", len(files))
	return files, nil
}

// expand returns the existing directories matching pattern.
func (d *Discoverer) expand(pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(path.Clean("/"+pattern), "/")
	if pattern == "" {
		pattern = "."
	}

	matches, err := doublestar.Glob(afero.NewIOFS(d.fs), pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid discovery pattern %q: %w", pattern, err)
	}

	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := d.fs.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, m)
	}
	return dirs, nil
}

func (d *Discoverer) matches(p string) bool {
	if d.extension == "" {
		return true
	}
	return strings.EqualFold(path.Ext(p), d.extension)
}

// baseName returns the file name without directory and extension.
func baseName(p string) string {
	name := path.Base(p)
	return strings.TrimSuffix(name, path.Ext(name))
}
