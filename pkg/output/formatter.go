// Package output renders command results as tables, JSON or YAML.
package output

import (
	"io"
)

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes data to w.
	Format(w io.Writer, data any, config *FormatConfig) error

	// Name returns the name of the formatter (e.g., "json", "yaml", "table").
	Name() string

	// Supports returns true if the formatter can handle the given data type.
	Supports(data any) bool
}

// Tabular is implemented by results that know how to lay themselves out as
// a table.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// FormatConfig contains configuration options for formatting output.
type FormatConfig struct {
	// Pretty enables indentation (for JSON)
	Pretty bool

	// Colors enables colored table headers
	Colors bool

	// ShowHeaders controls header display (for tables)
	ShowHeaders bool
}

// NewFormatConfig creates a new FormatConfig with sensible defaults.
func NewFormatConfig() *FormatConfig {
	return &FormatConfig{
		Pretty:      true,
		Colors:      true,
		ShowHeaders: true,
	}
}

// WithColors sets the colors option.
func (c *FormatConfig) WithColors(colors bool) *FormatConfig {
	c.Colors = colors
	return c
}
