package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.IntegerWidth != Width64 {
		t.Errorf("default integer width = %v, want Width64", d.IntegerWidth)
	}
	if !d.AssertionsEnabled {
		t.Error("expected assertions enabled by default")
	}
	if d.MaxIterations != 30 {
		t.Errorf("default max iterations = %d, want 30", d.MaxIterations)
	}
}

func TestLoadYAML_MissingFileIsNotAnError(t *testing.T) {
	base := Defaults()
	got, err := LoadYAML(base, filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != base {
		t.Errorf("expected unchanged config for a missing file, got %+v", got)
	}
}

func TestLoadYAML_OverlaysPresentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funxyc.yaml")
	contents := "integer_width: 32\nmax_iterations: 5\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadYAML(Defaults(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IntegerWidth != Width32 {
		t.Errorf("integer width = %v, want Width32", got.IntegerWidth)
	}
	if got.MaxIterations != 5 {
		t.Errorf("max iterations = %d, want 5", got.MaxIterations)
	}
	// Fields the YAML file didn't mention keep their default.
	if !got.AssertionsEnabled {
		t.Error("expected assertions_enabled to keep its default")
	}
}

func TestResolve_CLIOverridesYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funxyc.yaml")
	if err := os.WriteFile(path, []byte("max_iterations: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cliMax := 99
	cfg, err := Resolve(path, Flags{MaxIterations: &cliMax, GraphDB: "out.db"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxIterations != 99 {
		t.Errorf("max iterations = %d, want CLI override 99", cfg.MaxIterations)
	}
	if cfg.GraphDB != "out.db" {
		t.Errorf("graph db = %q, want out.db", cfg.GraphDB)
	}
	// Not overridden by CLI or YAML: falls through to the default.
	if cfg.IntegerWidth != Width64 {
		t.Errorf("integer width = %v, want default Width64", cfg.IntegerWidth)
	}
}

func TestResolve_NoYAMLPathSkipsFileLookup(t *testing.T) {
	cfg, err := Resolve("", Flags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("expected bare defaults with no YAML path and no flags, got %+v", cfg)
	}
}
