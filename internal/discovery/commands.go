package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/afero"
)

var (
	namespacePattern = regexp.MustCompile(`\bnamespace\s+([A-Za-z0-9_\\]+)\s*;`)
	classPattern     = regexp.MustCompile(`\bclass\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// Declaration is the namespace and class declared by a command unit.
type Declaration struct {
	Namespace string
	Class     string
}

// Identity returns the fully qualified class name, \Namespace\Class.
func (d Declaration) Identity() string {
	return `\` + strings.Trim(d.Namespace, `\`) + `\` + d.Class
}

// ParseDeclaration extracts the first namespace and class declaration of a unit.
func ParseDeclaration(source []byte) (Declaration, error) {
	ns := namespacePattern.FindSubmatch(source)
	if ns == nil {
		return Declaration{}, registry.ErrMissingNamespaceDeclaration
	}
	class := classPattern.FindSubmatch(source)
	if class == nil {
		return Declaration{}, registry.ErrMissingClassDeclaration
	}
	return Declaration{Namespace: string(ns[1]), Class: string(class[1])}, nil
}

// RegisterCommands discovers command units, resolves each declared class in
// factories and adds the resulting command to reg. It returns the number of
// commands registered.
func (d *Discoverer) RegisterCommands(reg *registry.CommandRegistry, factories registry.FactoryTable, patterns []string) (int, error) {
	files, err := d.Discover(patterns)
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, file := range files {
		source, err := afero.ReadFile(d.fs, file)
		if err != nil {
			return registered, fmt.Errorf("failed to read command unit %s: %w", file, err)
		}

		decl, err := ParseDeclaration(source)
		if err != nil {
			return registered, fmt.Errorf("%s: %w", file, err)
		}

		identity := decl.Identity()
		factory, ok := factories[identity]
		if !ok || factory == nil {
			return registered, fmt.Errorf("%w: %s declared in %s", registry.ErrUnknownCommandType, identity, file)
		}

		if err := reg.AddCommand(identity, file, factory()); err != nil {
			return registered, fmt.Errorf("%s: %w", file, err)
		}
		registered++
		d.logger.Debug("registered command", "identity", identity, "path", file)
	}

	return registered, nil
}
