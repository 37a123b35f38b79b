package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type options struct{}

func (options) Header() []string { return []string{"OPTION", "TYPE"} }

func (options) Rows() [][]string {
	return [][]string{{"db-host", "database"}, {"base-url", "general"}}
}

func TestJSONFormatter(t *testing.T) {
	var out bytes.Buffer
	data := map[string]any{"name": "database", "entries": 3}

	require.NoError(t, NewJSONFormatter().Format(&out, data, nil))
	assert.Contains(t, out.String(), "\n  \"entries\": 3")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "database", decoded["name"])

	out.Reset()
	require.NoError(t, NewJSONFormatter().Format(&out, data, &FormatConfig{ShowHeaders: true}))
	assert.Equal(t, `{"entries":3,"name":"database"}`+"\n", out.String())
}

func TestYAMLFormatter(t *testing.T) {
	var out bytes.Buffer
	data := struct {
		Name string   `yaml:"name"`
		Tags []string `yaml:"tags"`
	}{Name: "database", Tags: []string{"magento"}}

	require.NoError(t, NewYAMLFormatter().Format(&out, data, nil))
	assert.Equal(t, "name: database\ntags:\n  - magento\n", out.String())

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "database", decoded["name"])

	out.Reset()
	require.NoError(t, NewYAMLFormatter().Format(&out, nil, nil))
	assert.Equal(t, "null\n", out.String())
}

func TestTableFormatter(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	f := NewTableFormatter()
	assert.True(t, f.Supports(options{}))
	assert.True(t, f.Supports([][]string{{"a"}}))
	assert.True(t, f.Supports(map[string]string{}))
	assert.False(t, f.Supports("text"))

	var out bytes.Buffer
	require.NoError(t, f.Format(&out, options{}, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "OPTION")
	assert.Contains(t, lines[1], "db-host")

	out.Reset()
	require.NoError(t, f.Format(&out, map[string]string{"b": "2", "a": "1"}, nil))
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "a")
	assert.Contains(t, lines[2], "b")

	out.Reset()
	require.NoError(t, f.Format(&out, [][]string{}, nil))
	assert.Equal(t, "No results\n", out.String())

	assert.Error(t, f.Format(&out, 42, nil))
}

func TestManager(t *testing.T) {
	m := NewManager()
	assert.Equal(t, []string{"json", "table", "yaml"}, m.Formats())

	_, err := m.GetFormatter("JSON")
	require.NoError(t, err)

	_, err = m.GetFormatter("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, table, yaml")

	var out bytes.Buffer
	require.NoError(t, m.Format(&out, map[string]string{"a": "1"}, "json"))
	assert.Contains(t, out.String(), `"a": "1"`)

	err = m.Format(&out, "plain", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support")
}

func TestManager_ColorsFollowPterm(t *testing.T) {
	assert.True(t, NewManager().Config().Colors)

	pterm.DisableColor()
	defer pterm.EnableColor()
	assert.False(t, NewManager().Config().Colors)
}
