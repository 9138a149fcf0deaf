package astro

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.LogLevel != "info" {
		t.Fatalf("expected default log level 'info', got %q", c.LogLevel)
	}
	if c.DefaultAbsTol != 1e-12 || c.DefaultRelTol != 1e-12 {
		t.Fatal("expected default tolerances of 1e-12")
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "astro.yaml")
	contents := "log_level: debug\noutput_dir: /tmp/out\ndefault_abs_tol: 1e-10\ndefault_rel_tol: 1e-9\ndefault_event_tol: 1e-5\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("could not write temp config: %v", err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.LogLevel != "debug" {
		t.Fatalf("expected log level 'debug', got %q", c.LogLevel)
	}
	if c.OutputDir != "/tmp/out" {
		t.Fatalf("expected output dir '/tmp/out', got %q", c.OutputDir)
	}
	if c.DefaultAbsTol != 1e-10 {
		t.Fatalf("expected abs tol 1e-10, got %e", c.DefaultAbsTol)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path/astro.yaml"); !IsWrong(err) {
		t.Fatal("expected WrongError for a missing config file")
	}
}

func TestConfigIntegratorConfigAppliesTolerances(t *testing.T) {
	c := DefaultConfig()
	c.DefaultAbsTol = 1e-8
	c.DefaultRelTol = 1e-7
	ic := c.IntegratorConfig(Fehlberg78)
	if ic.Family != Fehlberg78 {
		t.Fatal("expected the requested solver family to be set")
	}
	if ic.AbsTol != 1e-8 || ic.RelTol != 1e-7 {
		t.Fatal("expected the integrator config to inherit the Config's tolerances")
	}
}
