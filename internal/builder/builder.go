// Package builder converts the configuration registry into the option surface
// of the installer command and applies it to a cobra command.
package builder

import (
	"fmt"
	"slices"

	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/registry"
)

// Built-in options present on every installer command.
const (
	ArgumentName  = "name"
	OptionForce   = "force"
	ShortcutForce = "f"
)

// OptionBuilder builds option definitions from a configuration registry.
type OptionBuilder struct {
	config *BuilderConfig
}

// BuilderConfig configures option building.
type BuilderConfig struct {
	// NameDescription describes the positional project name argument.
	NameDescription string
	// ForceDescription describes the --force flag.
	ForceDescription string
}

// NewOptionBuilder creates a new option builder.
func NewOptionBuilder(config *BuilderConfig) *OptionBuilder {
	if config == nil {
		config = DefaultBuilderConfig()
	}
	return &OptionBuilder{config: config}
}

// DefaultBuilderConfig returns the default builder configuration.
func DefaultBuilderConfig() *BuilderConfig {
	return &BuilderConfig{
		NameDescription:  "The name of the project directory",
		ForceDescription: "Forces install even if the directory already exists",
	}
}

// Build projects the registry into an option set. The registry is not
// modified and every call starts from an empty shortcut table.
func (b *OptionBuilder) Build(reg *registry.ConfigurationRegistry) (*options.Set, error) {
	set := &options.Set{
		Arguments: []options.Argument{{
			Name:        ArgumentName,
			Required:    true,
			Description: b.config.NameDescription,
		}},
		Options: []options.Definition{{
			Name:            OptionForce,
			Shortcut:        ShortcutForce,
			Mode:            options.ModeNone,
			Description:     b.config.ForceDescription,
			SuggestedValues: []string{},
		}},
	}

	types := reg.Configurations()

	table := NewShortcutTable()
	table.Reserve(ShortcutForce)
	if err := reserveExplicitShortcuts(table, types); err != nil {
		return nil, err
	}

	seen := map[string]string{OptionForce: ""}
	for _, t := range types {
		for _, entry := range t.Entries() {
			if owner, ok := seen[entry.Key]; ok {
				return nil, fmt.Errorf("%w: %q in %q and %q", registry.ErrDuplicateOption, entry.Key, owner, t.ID)
			}
			seen[entry.Key] = t.ID

			def, err := b.buildDefinition(table, t.ID, entry)
			if err != nil {
				return nil, err
			}
			set.Options = append(set.Options, def)
		}
	}

	return set, nil
}

// buildDefinition validates a single entry and converts it.
func (b *OptionBuilder) buildDefinition(table *ShortcutTable, typeID string, entry *registry.Entry) (options.Definition, error) {
	if err := validateEntry(typeID, entry); err != nil {
		return options.Definition{}, err
	}

	mode, err := resolveMode(typeID, entry)
	if err != nil {
		return options.Definition{}, err
	}

	shortcut := entry.Shortcut
	if shortcut == "" {
		shortcut = table.Resolve(entry.Key, typeID)
	}

	def := options.Definition{
		Name:            entry.Key,
		Shortcut:        shortcut,
		Mode:            mode,
		Description:     entry.Description,
		SuggestedValues: []string{},
		Type:            typeID,
		Tags:            slices.Clone(entry.Tags),
	}

	// Defaults and suggestions only make sense for options taking a value.
	if mode.AcceptsValue() {
		def.Default = entry.Default
		if len(entry.SuggestedValues) > 0 {
			def.SuggestedValues = slices.Clone(entry.SuggestedValues)
		}
	}

	return def, nil
}

// validateEntry checks that every required field is declared.
func validateEntry(typeID string, entry *registry.Entry) error {
	for _, field := range registry.RequiredFields {
		if !entry.Declares(field) {
			return &registry.FieldError{
				Type:  typeID,
				Key:   entry.Key,
				Field: field,
				Err:   registry.ErrMissingConfigurationField,
			}
		}
	}
	return nil
}

// resolveMode converts the declared mode, defaulting to optional.
func resolveMode(typeID string, entry *registry.Entry) (options.Mode, error) {
	if !entry.Declares(registry.FieldMode) {
		return options.ModeOptional, nil
	}

	mode, err := options.ParseMode(entry.Mode)
	if err != nil {
		return 0, &registry.FieldError{
			Type:  typeID,
			Key:   entry.Key,
			Field: registry.FieldMode,
			Value: entry.Mode,
			Err:   registry.ErrInvalidOptionMode,
		}
	}
	return mode, nil
}

// reserveExplicitShortcuts records declared shortcuts before any is derived.
func reserveExplicitShortcuts(table *ShortcutTable, types []*registry.Type) error {
	for _, t := range types {
		for _, entry := range t.Entries() {
			if entry.Shortcut == "" {
				continue
			}
			if !table.Reserve(entry.Shortcut) {
				return fmt.Errorf("%w: %q (option %q in %q)", registry.ErrShortcutConflict, entry.Shortcut, entry.Key, t.ID)
			}
		}
	}
	return nil
}
