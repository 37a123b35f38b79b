package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pterm/pterm"
)

// Manager selects a formatter by name.
type Manager struct {
	formatters    map[string]Formatter
	defaultFormat string
	config        *FormatConfig
}

// NewManager creates a new output manager with the table, JSON and YAML
// formatters. Table colors follow pterm's global color switch.
func NewManager() *Manager {
	m := &Manager{
		formatters:    make(map[string]Formatter),
		defaultFormat: "table",
		config:        NewFormatConfig().WithColors(pterm.PrintColor),
	}

	m.RegisterFormatter(NewJSONFormatter())
	m.RegisterFormatter(NewYAMLFormatter())
	m.RegisterFormatter(NewTableFormatter())

	return m
}

// RegisterFormatter registers a new formatter.
func (m *Manager) RegisterFormatter(formatter Formatter) {
	m.formatters[formatter.Name()] = formatter
}

// GetFormatter returns a formatter by name.
func (m *Manager) GetFormatter(name string) (Formatter, error) {
	formatter, ok := m.formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(m.Formats(), ", "))
	}
	return formatter, nil
}

// Formats returns the registered format names, sorted.
func (m *Manager) Formats() []string {
	names := make([]string, 0, len(m.formatters))
	for name := range m.formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Config returns the format configuration.
func (m *Manager) Config() *FormatConfig {
	return m.config
}

// Format formats data using the named format.
func (m *Manager) Format(w io.Writer, data any, format string) error {
	if format == "" {
		format = m.defaultFormat
	}

	formatter, err := m.GetFormatter(format)
	if err != nil {
		return err
	}

	if !formatter.Supports(data) {
		return fmt.Errorf("formatter '%s' does not support data type %T", format, data)
	}

	return formatter.Format(w, data, m.config)
}
