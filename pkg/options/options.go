// Package options describes the command-line options generated from the
// configuration registry and the key/value store the wizard reads and writes.
package options

import (
	"fmt"
	"strings"

	"github.com/maginium/installer/pkg/registry"
)

// Mode is the input mode of an option.
type Mode int

// Input modes.
const (
	ModeNone Mode = iota
	ModeRequired
	ModeOptional
	ModeArray
	ModeNegatable
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeRequired:
		return "required"
	case ModeOptional:
		return "optional"
	case ModeArray:
		return "array"
	case ModeNegatable:
		return "negatable"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// AcceptsValue reports whether options of this mode take a value, which is
// when defaults and suggestions apply.
func (m Mode) AcceptsValue() bool {
	return m == ModeRequired || m == ModeOptional
}

// ParseMode converts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "none":
		return ModeNone, nil
	case "required":
		return ModeRequired, nil
	case "optional":
		return ModeOptional, nil
	case "array":
		return ModeArray, nil
	case "negatable":
		return ModeNegatable, nil
	default:
		return 0, fmt.Errorf("%w: %s", registry.ErrInvalidOptionMode, s)
	}
}

// Definition is a single generated command-line option.
type Definition struct {
	Name            string
	Shortcut        string
	Mode            Mode
	Description     string
	Default         any
	SuggestedValues []string

	// Type is the configuration type the option came from; empty for built-in options.
	Type string
	Tags []string
}

// Argument is a positional argument.
type Argument struct {
	Name        string
	Required    bool
	Description string
}

// Set is the full option surface of the installer command.
type Set struct {
	Arguments []Argument
	Options   []Definition
}

// Lookup returns the definition named name.
func (s *Set) Lookup(name string) (Definition, bool) {
	for _, d := range s.Options {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Shortcuts returns the shortcut of every option that has one, keyed by option name.
func (s *Set) Shortcuts() map[string]string {
	out := make(map[string]string, len(s.Options))
	for _, d := range s.Options {
		if d.Shortcut != "" {
			out[d.Name] = d.Shortcut
		}
	}
	return out
}
