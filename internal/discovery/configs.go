package discovery

import (
	"errors"
	"fmt"

	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/afero"
)

// RegisterConfigs discovers configuration fragments and merges each one into
// reg under its file base name. Malformed fragments are logged and skipped.
// It returns the number of fragments registered.
func (d *Discoverer) RegisterConfigs(reg *registry.ConfigurationRegistry, patterns []string) (int, error) {
	files, err := d.Discover(patterns)
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, file := range files {
		id := baseName(file)

		data, err := afero.ReadFile(d.fs, file)
		if err != nil {
			return registered, fmt.Errorf("failed to read configuration %s: %w", file, err)
		}

		t, err := registry.ParseFragment(id, data)
		if err != nil {
			if errors.Is(err, registry.ErrMalformedFragment) {
				d.logger.Warn("skipping configuration fragment", "path", file, "error", err)
				continue
			}
			return registered, fmt.Errorf("failed to parse configuration %s: %w", file, err)
		}

		reg.AddConfiguration(id, t)
		registered++
		d.logger.Debug("registered configuration", "type", id, "path", file, "entries", t.Len())
	}

	return registered, nil
}
