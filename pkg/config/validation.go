package config

import (
	"fmt"
	"strings"

	"github.com/maginium/installer/pkg/logging"
)

// ValidationError represents a settings validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validator handles settings validation.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates loaded settings.
func (v *Validator) Validate(s *Settings) error {
	v.errors = make(ValidationErrors, 0)

	if len(s.ConfigPatterns) == 0 {
		v.addError(KeyConfigPatterns, "at least one pattern is required")
	}
	if len(s.CommandPatterns) == 0 {
		v.addError(KeyCommandPatterns, "at least one pattern is required")
	}
	v.validateExtension(KeyConfigExtension, s.ConfigExtension)
	v.validateExtension(KeyCommandExtension, s.CommandExtension)

	if s.InstallTag == "" {
		v.addError(KeyInstallTag, "is required")
	}
	if s.PHPBinary == "" {
		v.addError(KeyPHPBinary, "is required")
	}
	if s.MagentoBinary == "" {
		v.addError(KeyMagentoBinary, "is required")
	}
	if s.RecentLimit < 0 {
		v.addError(KeyRecentLimit, "must not be negative")
	}
	if s.LogLevel != "" && logging.ParseLevel(s.LogLevel).String() != strings.ToLower(strings.TrimSpace(s.LogLevel)) {
		v.addError(KeyLogLevel, fmt.Sprintf("unknown level %q", s.LogLevel))
	}

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

func (v *Validator) validateExtension(field, ext string) {
	switch {
	case ext == "":
		v.addError(field, "is required")
	case strings.ContainsAny(ext, `/\*`):
		v.addError(field, fmt.Sprintf("invalid extension %q", ext))
	}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}
