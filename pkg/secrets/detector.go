// Package secrets detects sensitive installer options and masks their values
// before they are printed or logged.
package secrets

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFieldPatterns returns the option name patterns treated as secrets.
func DefaultFieldPatterns() []string {
	return []string{
		"*password*",
		"*passwd*",
		"*secret*",
		"*token*",
		"*-key",
		"*apikey*",
		"*api-key*",
		"*private-key*",
		"*credential*",
	}
}

// Detector decides whether an option holds a secret.
type Detector struct {
	enabled       bool
	fieldPatterns []*regexp.Regexp
	explicit      map[string]bool
}

// NewDetector compiles glob-style option name patterns. A nil slice uses
// DefaultFieldPatterns.
func NewDetector(patterns []string) (*Detector, error) {
	if patterns == nil {
		patterns = DefaultFieldPatterns()
	}

	d := &Detector{
		enabled:       true,
		fieldPatterns: make([]*regexp.Regexp, 0, len(patterns)),
		explicit:      make(map[string]bool),
	}

	for _, pattern := range patterns {
		regex, err := globToRegex(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid field pattern %q: %w", pattern, err)
		}
		d.fieldPatterns = append(d.fieldPatterns, regex)
	}

	return d, nil
}

// MustDetector is NewDetector for the default patterns, which always compile.
func MustDetector() *Detector {
	d, err := NewDetector(nil)
	if err != nil {
		panic(err)
	}
	return d
}

// SetEnabled turns detection on or off.
func (d *Detector) SetEnabled(enabled bool) {
	d.enabled = enabled
}

// IsEnabled returns whether secret detection is enabled.
func (d *Detector) IsEnabled() bool {
	return d != nil && d.enabled
}

// MarkSecret flags an option as secret regardless of its name.
func (d *Detector) MarkSecret(name string) {
	d.explicit[strings.ToLower(name)] = true
}

// IsSecretField checks if an option name indicates a secret.
func (d *Detector) IsSecretField(fieldName string) bool {
	if !d.IsEnabled() {
		return false
	}

	lowerField := strings.ToLower(fieldName)
	if d.explicit[lowerField] {
		return true
	}

	for _, pattern := range d.fieldPatterns {
		if pattern.MatchString(lowerField) {
			return true
		}
	}

	return false
}

// MaskString replaces every occurrence of the given secret values in text.
func (d *Detector) MaskString(text string, values []string, masking *Masking) string {
	if !d.IsEnabled() {
		return text
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		text = strings.ReplaceAll(text, v, MaskValue(v, masking))
	}
	return text
}

// globToRegex converts a glob-style pattern to a case-insensitive regex
// matching the whole string. Supports * and ?.
func globToRegex(pattern string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	escaped = strings.ReplaceAll(escaped, `\?`, ".")
	return regexp.Compile("(?i)^" + escaped + "$")
}
