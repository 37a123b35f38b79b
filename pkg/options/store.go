package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Store is the key/value option store the wizard fills and the installation
// command reads. Keys are option names.
type Store interface {
	// Option returns the current value of the option and whether it exists.
	Option(name string) (string, bool)
	// SetOption replaces the value of the option.
	SetOption(name, value string) error
	// Changed reports whether the value was given explicitly, on the command
	// line or through SetOption.
	Changed(name string) bool
}

// FlagStore is a Store backed by a parsed pflag flag set.
type FlagStore struct {
	flags *pflag.FlagSet
}

// NewFlagStore wraps a flag set.
func NewFlagStore(flags *pflag.FlagSet) *FlagStore {
	return &FlagStore{flags: flags}
}

// Option returns the flag value. Slice values are joined with commas and a set
// --no-<name> flag turns a negatable option into "false".
func (s *FlagStore) Option(name string) (string, bool) {
	flag := s.flags.Lookup(name)
	if flag == nil {
		return "", false
	}

	if neg := s.flags.Lookup(negatedName(name)); neg != nil && neg.Changed {
		if v, _ := strconv.ParseBool(neg.Value.String()); v {
			return "false", true
		}
	}

	if sv, ok := flag.Value.(pflag.SliceValue); ok {
		return strings.Join(sv.GetSlice(), ","), true
	}
	return flag.Value.String(), true
}

// SetOption replaces the flag value and marks it as changed.
func (s *FlagStore) SetOption(name, value string) error {
	flag := s.flags.Lookup(name)
	if flag == nil {
		return fmt.Errorf("flag %s not found", name)
	}

	if sv, ok := flag.Value.(pflag.SliceValue); ok {
		var items []string
		if value != "" {
			items = strings.Split(value, ",")
		}
		if err := sv.Replace(items); err != nil {
			return fmt.Errorf("failed to set flag %s: %w", name, err)
		}
		flag.Changed = true
		return nil
	}

	if err := s.flags.Set(name, value); err != nil {
		return fmt.Errorf("failed to set flag %s: %w", name, err)
	}
	return nil
}

// Changed reports whether the flag, or its negation, was set.
func (s *FlagStore) Changed(name string) bool {
	if s.flags.Changed(name) {
		return true
	}
	if neg := s.flags.Lookup(negatedName(name)); neg != nil {
		return neg.Changed
	}
	return false
}

// MapStore is an in-memory Store.
type MapStore struct {
	values  map[string]string
	changed map[string]bool
}

// NewMapStore creates a store seeded with default values. Seeded values are
// not reported as changed.
func NewMapStore(defaults map[string]string) *MapStore {
	s := &MapStore{
		values:  make(map[string]string, len(defaults)),
		changed: make(map[string]bool),
	}
	for k, v := range defaults {
		s.values[k] = v
	}
	return s
}

// Option returns the stored value.
func (s *MapStore) Option(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// SetOption stores the value.
func (s *MapStore) SetOption(name, value string) error {
	s.values[name] = value
	s.changed[name] = true
	return nil
}

// Changed reports whether SetOption was called for name.
func (s *MapStore) Changed(name string) bool {
	return s.changed[name]
}

func negatedName(name string) string {
	return "no-" + name
}

// NegatedName returns the flag name of the negation of a negatable option.
func NegatedName(name string) string {
	return negatedName(name)
}
