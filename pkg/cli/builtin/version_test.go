package builtin

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand(&VersionOptions{Version: "1.0.0"})

	if cmd == nil {
		t.Fatal("expected command, got nil")
	}

	if cmd.Use != "version" {
		t.Errorf("expected Use 'version', got %q", cmd.Use)
	}

	if cmd.Flags().Lookup("output") == nil {
		t.Error("expected --output flag")
	}
}

func TestRunVersion_Text(t *testing.T) {
	buildTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	output := &bytes.Buffer{}
	opts := &VersionOptions{
		Version:      "1.0.0",
		BuildTime:    buildTime,
		Counts:       func() (int, int) { return 10, 1 },
		OutputFormat: "text",
		Output:       output,
	}

	if err := runVersion(opts); err != nil {
		t.Fatalf("runVersion failed: %v", err)
	}

	result := output.String()
	for _, want := range []string{"Version: 1.0.0", "Built: 2025-01-01T00:00:00Z", "Go: go", "Configurations: 10", "Commands: 1"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output, got: %s", want, result)
		}
	}
}

func TestRunVersion_TextWithoutCounts(t *testing.T) {
	output := &bytes.Buffer{}
	if err := runVersion(&VersionOptions{Version: "1.0.0", Output: output}); err != nil {
		t.Fatalf("runVersion failed: %v", err)
	}

	if strings.Contains(output.String(), "Built:") || strings.Contains(output.String(), "Commands:") {
		t.Errorf("unexpected optional fields in output: %s", output.String())
	}
}

func TestRunVersion_JSON(t *testing.T) {
	output := &bytes.Buffer{}
	opts := &VersionOptions{Version: "1.0.0", OutputFormat: "json", Output: output}

	if err := runVersion(opts); err != nil {
		t.Fatalf("runVersion failed: %v", err)
	}

	var info VersionInfo
	if err := json.Unmarshal(output.Bytes(), &info); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if info.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", info.Version)
	}
}

func TestRunVersion_YAML(t *testing.T) {
	output := &bytes.Buffer{}
	opts := &VersionOptions{Version: "1.0.0", OutputFormat: "yaml", Output: output}

	if err := runVersion(opts); err != nil {
		t.Fatalf("runVersion failed: %v", err)
	}

	var info map[string]any
	if err := yaml.Unmarshal(output.Bytes(), &info); err != nil {
		t.Fatalf("failed to parse YAML output: %v", err)
	}

	if info["version"] != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %v", info["version"])
	}
}

func TestRunVersion_UnknownFormat(t *testing.T) {
	err := runVersion(&VersionOptions{Version: "1.0.0", OutputFormat: "xml", Output: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestGetVersionShort(t *testing.T) {
	if got := GetVersionShort("1.2.3"); got != "v1.2.3" {
		t.Errorf("expected 'v1.2.3', got %q", got)
	}
}
