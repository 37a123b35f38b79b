package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/spf13/cobra"
)

// Command is an installable CLI command discovered from a command unit.
type Command interface {
	// Definition returns the cobra command this unit contributes to the root.
	Definition() *cobra.Command
}

// Factory constructs a command. Factories take no arguments; anything a command
// needs is captured when the factory table is built.
type Factory func() Command

// FactoryTable maps fully-qualified command identities (\Namespace\Class) to factories.
type FactoryTable map[string]Factory

// CommandDefinition is a registered command together with its identity.
type CommandDefinition struct {
	// Identity is the fully-qualified type name, e.g. \Maginium\Installer\Commands\NewCommand.
	Identity string
	// Source is the unit the command was discovered from.
	Source  string
	Command Command
}

// CommandRegistry is an ordered store of discovered commands.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands []*CommandDefinition
	index    map[string]*CommandDefinition
}

// NewCommandRegistry creates an empty command registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		index: make(map[string]*CommandDefinition),
	}
}

// AddCommand registers a command under identity. Nil commands, commands without
// a cobra definition and duplicate identities are rejected.
func (r *CommandRegistry) AddCommand(identity, source string, cmd Command) error {
	if isNil(cmd) {
		return fmt.Errorf("%w: %s is nil", ErrInvalidCommandInstance, identity)
	}
	def := cmd.Definition()
	if def == nil || def.Name() == "" {
		return fmt.Errorf("%w: %s has no command definition", ErrInvalidCommandInstance, identity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.index[identity]; ok {
		return fmt.Errorf("%w: %s (first seen in %s, again in %s)", ErrDuplicateCommand, identity, existing.Source, source)
	}

	cd := &CommandDefinition{Identity: identity, Source: source, Command: cmd}
	r.commands = append(r.commands, cd)
	r.index[identity] = cd
	return nil
}

// Commands returns the registered commands in registration order.
func (r *CommandRegistry) Commands() []*CommandDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*CommandDefinition, len(r.commands))
	copy(out, r.commands)
	return out
}

// HasCommand reports whether a command is registered under the identity or
// whose cobra name equals nameOrIdentity.
func (r *CommandRegistry) HasCommand(nameOrIdentity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.index[nameOrIdentity]; ok {
		return true
	}
	for _, cd := range r.commands {
		if cd.Command.Definition().Name() == nameOrIdentity {
			return true
		}
	}
	return false
}

// Len returns the number of registered commands.
func (r *CommandRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

func isNil(cmd Command) bool {
	if cmd == nil {
		return true
	}
	v := reflect.ValueOf(cmd)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
