package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maginium/installer/internal/commands"
	"github.com/maginium/installer/pkg/cli/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalFlags(t *testing.T) {
	g := parseGlobalFlags([]string{
		"new", "shop", "--db-host", "db.local", "-v", "--base=/tmp/scaffold", "--debug", "-n",
	})

	assert.True(t, g.verbose)
	assert.True(t, g.debug)
	assert.False(t, g.noColor)
	assert.Equal(t, "/tmp/scaffold", g.base)
}

func newTestRoot(t *testing.T) (*bytes.Buffer, func(args ...string) error) {
	t.Helper()
	out := &bytes.Buffer{}
	g := &globalFlags{config: filepath.Join(t.TempDir(), "config.yaml")}
	loader := newLoader(g)
	a, err := newApp(g, loader, out, out)
	require.NoError(t, err)
	require.NoError(t, a.Bootstrap(commands.Factories(a)))

	root, err := newRootCmd(a, loader)
	require.NoError(t, err)

	return out, func(args ...string) error {
		root.SetArgs(args)
		return root.Execute()
	}
}

func TestRoot_Commands(t *testing.T) {
	_, execute := newTestRoot(t)
	require.NoError(t, execute("--help"))
}

func TestRoot_Configs(t *testing.T) {
	out, execute := newTestRoot(t)

	require.NoError(t, execute("configs", "-o", "json", "--tag", "magento", "--strict"))

	var list builtin.OptionList
	require.NoError(t, json.Unmarshal(out.Bytes(), &list))
	require.NotEmpty(t, list)

	names := make(map[string]bool)
	for _, v := range list {
		names[v.Name] = true
	}
	assert.True(t, names["db-host"])
	assert.False(t, names["cleanup-database"])
}

func TestRoot_Version(t *testing.T) {
	out, execute := newTestRoot(t)

	require.NoError(t, execute("version", "-o", "json"))

	var info builtin.VersionInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, version, info.Version)
	assert.Equal(t, 10, info.Configurations)
	assert.Equal(t, 1, info.Commands)
}

func TestRoot_NewHasGeneratedFlags(t *testing.T) {
	out, execute := newTestRoot(t)

	require.NoError(t, execute("new", "--help"))
	assert.Contains(t, out.String(), "--db-host")
	assert.Contains(t, out.String(), "--no-interaction")
	assert.Contains(t, out.String(), "-f, --force")
}

func TestParseBuildDate(t *testing.T) {
	assert.True(t, parseBuildDate("unknown").IsZero())
	assert.Equal(t, 2024, parseBuildDate("2024-05-01T10:00:00Z").Year())
}

func TestRoot_ConfigPath(t *testing.T) {
	out, execute := newTestRoot(t)

	require.NoError(t, execute("config", "path"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "config.yaml"))
}
