package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncoderFormatter serializes any value with a streaming encoder.
type EncoderFormatter struct {
	name   string
	encode func(w io.Writer, data any, config *FormatConfig) error
}

// NewJSONFormatter returns the json formatter. Pretty configs indent by two spaces.
func NewJSONFormatter() *EncoderFormatter {
	return &EncoderFormatter{name: "json", encode: encodeJSON}
}

// NewYAMLFormatter returns the yaml formatter.
func NewYAMLFormatter() *EncoderFormatter {
	return &EncoderFormatter{name: "yaml", encode: encodeYAML}
}

// Name returns the format name.
func (f *EncoderFormatter) Name() string { return f.name }

// Supports accepts any value.
func (f *EncoderFormatter) Supports(any) bool { return true }

// Format encodes data to w.
func (f *EncoderFormatter) Format(w io.Writer, data any, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}
	if err := f.encode(w, data, config); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.name, err)
	}
	return nil
}

func encodeJSON(w io.Writer, data any, config *FormatConfig) error {
	enc := json.NewEncoder(w)
	if config.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}

func encodeYAML(w io.Writer, data any, _ *FormatConfig) error {
	if data == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
