package registry

import (
	"errors"
	"fmt"
)

// Sentinel errors raised while discovering units and building option definitions.
// Callers match them with errors.Is; the wrapping error names the offending file,
// type or field.
var (
	// ErrDiscoveryExhausted is returned when no unit matched any discovery pattern.
	ErrDiscoveryExhausted = errors.New("no files found matching the glob patterns")

	// ErrMalformedFragment marks a configuration fragment that could not be parsed.
	// Discovery logs and skips such fragments instead of failing.
	ErrMalformedFragment = errors.New("malformed configuration fragment")

	// ErrMissingNamespaceDeclaration is returned when a command unit has no namespace.
	ErrMissingNamespaceDeclaration = errors.New("namespace not found")

	// ErrMissingClassDeclaration is returned when a command unit has no class.
	ErrMissingClassDeclaration = errors.New("class not found")

	// ErrUnknownCommandType is returned when a command identity has no registered factory.
	ErrUnknownCommandType = errors.New("unknown command type")

	// ErrInvalidCommandInstance is returned when a value inserted into the
	// command registry is not a usable command.
	ErrInvalidCommandInstance = errors.New("invalid command instance")

	// ErrDuplicateCommand is returned when the same command identity is registered twice.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrMissingConfigurationField is returned when an entry lacks a required field.
	ErrMissingConfigurationField = errors.New("missing required configuration field")

	// ErrInvalidOptionMode is returned when an entry declares an unknown mode.
	ErrInvalidOptionMode = errors.New("invalid mode")

	// ErrUnknownConfigurationType is returned when a lookup targets an unregistered type.
	ErrUnknownConfigurationType = errors.New("configuration type does not exist")

	// ErrDuplicateOption is returned when two configuration types declare the same option key.
	ErrDuplicateOption = errors.New("option declared more than once")

	// ErrShortcutConflict is returned when two entries declare the same explicit shortcut.
	ErrShortcutConflict = errors.New("shortcut declared more than once")
)

// FieldError reports a problem with a single field of a configuration entry.
type FieldError struct {
	Type  string
	Key   string
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidOptionMode):
		return fmt.Sprintf("%s: %s (option %q in %q)", e.Err, e.Value, e.Key, e.Type)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (option %q in %q)", e.Err, e.Field, e.Key, e.Type)
	default:
		return fmt.Sprintf("%s (option %q in %q)", e.Err, e.Key, e.Type)
	}
}

// Unwrap returns the sentinel error.
func (e *FieldError) Unwrap() error {
	return e.Err
}
