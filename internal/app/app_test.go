package app

import (
	"bytes"
	"testing"

	"github.com/maginium/installer/pkg/config"
	"github.com/maginium/installer/pkg/logging"
	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newCommandIdentity = `\Maginium\Installer\Commands\NewCommand`

type stubCommand struct {
	cmd *cobra.Command
}

func (s *stubCommand) Definition() *cobra.Command { return s.cmd }

func stubFactories() registry.FactoryTable {
	return registry.FactoryTable{
		newCommandIdentity: func() registry.Command {
			return &stubCommand{cmd: &cobra.Command{Use: "new <name>"}}
		},
	}
}

func newTestApp(t *testing.T, fsys afero.Fs) *App {
	t.Helper()
	a, err := New(Dependencies{
		FS:     fsys,
		Logger: logging.Discard(),
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	})
	require.NoError(t, err)
	return a
}

func TestNew_Defaults(t *testing.T) {
	a := newTestApp(t, afero.NewMemMapFs())

	assert.Equal(t, config.Defaults(), a.Settings)
	assert.Equal(t, 0, a.Configs.Len())
	assert.Equal(t, 0, a.Commands.Len())
	assert.Len(t, a.Catalogs, 3)
}

func TestBootstrap_EmbeddedScaffold(t *testing.T) {
	fsys, err := ScaffoldFS("")
	require.NoError(t, err)
	a := newTestApp(t, fsys)

	require.NoError(t, a.Bootstrap(stubFactories()))

	types, commands := a.Counts()
	assert.Equal(t, 10, types)
	assert.Equal(t, 1, commands)
	assert.True(t, a.Commands.HasCommand("new"))

	for _, id := range []string{
		"admin-user", "ampq", "back-pressure", "cache", "database",
		"general", "modules", "opensearch", "session", "store",
	} {
		typ, err := a.Configs.Configuration(id)
		require.NoError(t, err, id)
		assert.NotEmpty(t, typ.Name, id)
	}

	set, err := a.BuildOptions()
	require.NoError(t, err)
	require.Len(t, set.Arguments, 1)

	byName := make(map[string]options.Definition)
	for _, def := range set.Options {
		byName[def.Name] = def
	}
	assert.Equal(t, "general:bu", byName["base-url"].Shortcut)
	assert.Equal(t, "c", byName["cleanup-database"].Shortcut)
	assert.Equal(t, options.ModeNone, byName["cleanup-database"].Mode)
	assert.Equal(t, "127.0.0.1", byName["db-host"].Default)
}

func TestBootstrap_OnDiskBase(t *testing.T) {
	dir := t.TempDir()
	disk := afero.NewOsFs()
	require.NoError(t, disk.MkdirAll(dir+"/src/Configs/extra/nested", 0o755))
	require.NoError(t, disk.MkdirAll(dir+"/src/Commands", 0o755))
	require.NoError(t, afero.WriteFile(disk, dir+"/src/Configs/database.json", []byte(`{
		"name": "Database",
		"configurations": {
			"db-host": {"name": "Host?", "description": "Host", "default": "localhost", "suggestedValues": []}
		}
	}`), 0o644))
	require.NoError(t, afero.WriteFile(disk, dir+"/src/Configs/extra/nested/database.json", []byte(`{
		"configurations": {
			"db-name": {"name": "Name?", "description": "Name", "default": "maginium", "suggestedValues": []}
		}
	}`), 0o644))
	require.NoError(t, afero.WriteFile(disk, dir+"/src/Commands/NewCommand.php",
		[]byte("<?php\nnamespace Maginium\\Installer\\Commands;\nclass NewCommand {}\n"), 0o644))

	fsys, err := ScaffoldFS(dir)
	require.NoError(t, err)
	a := newTestApp(t, fsys)

	require.NoError(t, a.Bootstrap(stubFactories()))
	types, commands := a.Counts()
	assert.Equal(t, 1, types)
	assert.Equal(t, 1, commands)

	typ, err := a.Configs.Configuration("database")
	require.NoError(t, err)
	assert.Equal(t, []string{"db-host", "db-name"}, typ.Keys())
	assert.Equal(t, "Database", typ.Name)
}

func TestBootstrap_SourceDefaultsInCatalog(t *testing.T) {
	fsys, err := ScaffoldFS("")
	require.NoError(t, err)
	a := newTestApp(t, fsys)
	require.NoError(t, a.Bootstrap(stubFactories()))

	checked := 0
	for _, typ := range a.Configs.Configurations() {
		for _, entry := range typ.Entries() {
			if entry.Source == "" || entry.Default == nil {
				continue
			}
			c, ok := a.Catalogs[entry.Source]
			require.True(t, ok, "%s: unknown catalog %q", entry.Key, entry.Source)
			assert.True(t, c.Exists(cast.ToString(entry.Default)),
				"%s: default %v not in the %s catalog", entry.Key, entry.Default, entry.Source)
			checked++
		}
	}
	assert.Equal(t, 3, checked)
}

func TestScaffoldFS_InvalidBase(t *testing.T) {
	_, err := ScaffoldFS(t.TempDir() + "/missing")
	assert.Error(t, err)
}

func TestBootstrap_NoFragments(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "src/Commands/NewCommand.php",
		[]byte("<?php\nnamespace Maginium\\Installer\\Commands;\nclass NewCommand {}\n"), 0o644))

	a := newTestApp(t, fsys)
	err := a.Bootstrap(stubFactories())
	require.ErrorIs(t, err, registry.ErrDiscoveryExhausted)
}

func TestBootstrap_UnknownCommand(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "src/Configs/general.json",
		[]byte(`{"configurations": {}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "src/Commands/Other.php",
		[]byte("<?php\nnamespace Acme;\nclass Other {}\n"), 0o644))

	a := newTestApp(t, fsys)
	err := a.Bootstrap(stubFactories())
	require.ErrorIs(t, err, registry.ErrUnknownCommandType)
}
