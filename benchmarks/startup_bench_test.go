package benchmarks

import (
	"testing"

	"github.com/maginium/installer/internal/app"
	"github.com/maginium/installer/internal/builder"
	"github.com/maginium/installer/internal/discovery"
	"github.com/maginium/installer/pkg/logging"
	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type stubCommand struct {
	cmd *cobra.Command
}

func (s *stubCommand) Definition() *cobra.Command { return s.cmd }

var factories = registry.FactoryTable{
	`\Maginium\Installer\Commands\NewCommand`: func() registry.Command {
		return &stubCommand{cmd: &cobra.Command{Use: "new"}}
	},
}

func newApp(b *testing.B) *app.App {
	b.Helper()
	scaffold, err := app.ScaffoldFS("")
	if err != nil {
		b.Fatalf("failed to open scaffold: %v", err)
	}
	a, err := app.New(app.Dependencies{FS: scaffold, Logger: logging.Discard()})
	if err != nil {
		b.Fatalf("failed to create app: %v", err)
	}
	return a
}

// BenchmarkBootstrap benchmarks discovering the embedded scaffold
func BenchmarkBootstrap(b *testing.B) {
	scaffold, err := app.ScaffoldFS("")
	if err != nil {
		b.Fatalf("failed to open scaffold: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a, err := app.New(app.Dependencies{FS: scaffold, Logger: logging.Discard()})
		if err != nil {
			b.Fatalf("failed to create app: %v", err)
		}
		if err := a.Bootstrap(factories); err != nil {
			b.Fatalf("failed to bootstrap: %v", err)
		}
	}
}

// BenchmarkDiscoverInMemory benchmarks discovery over many fragments
func BenchmarkDiscoverInMemory(b *testing.B) {
	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"src/Configs", "src/Configs/store/extra", "src/Configs/deep/a/b"} {
		for _, name := range []string{"general", "database", "cache", "session"} {
			if err := afero.WriteFile(fsys, dir+"/"+name+".json", []byte(`{"configurations": {}}`), 0o644); err != nil {
				b.Fatalf("failed to write fragment: %v", err)
			}
		}
	}
	d := discovery.New(fsys, discovery.ConfigExtension)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Discover(discovery.DefaultConfigPatterns); err != nil {
			b.Fatalf("failed to discover: %v", err)
		}
	}
}

// BenchmarkBuildOptions benchmarks projecting the registry into options
func BenchmarkBuildOptions(b *testing.B) {
	a := newApp(b)
	if err := a.Bootstrap(factories); err != nil {
		b.Fatalf("failed to bootstrap: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.BuildOptions(); err != nil {
			b.Fatalf("failed to build options: %v", err)
		}
	}
}

// BenchmarkApplyOptions benchmarks registering the options as flags
func BenchmarkApplyOptions(b *testing.B) {
	a := newApp(b)
	if err := a.Bootstrap(factories); err != nil {
		b.Fatalf("failed to bootstrap: %v", err)
	}
	set, err := a.BuildOptions()
	if err != nil {
		b.Fatalf("failed to build options: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cmd := &cobra.Command{Use: "new"}
		if err := builder.Apply(cmd, set); err != nil {
			b.Fatalf("failed to apply options: %v", err)
		}
	}
}
