package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", config.Server.Port)
	}
	if config.Rates.DefaultBase != "USD" {
		t.Errorf("default base = %q, want USD", config.Rates.DefaultBase)
	}
	if len(config.Rates.Intermediates) == 0 {
		t.Error("default intermediates should not be empty")
	}
	if config.Storage.Address == "" {
		t.Error("storage address should have a default")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("/nonexistent/cambio.toml")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if config.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080", config.Server.Port)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cambio.toml")
	content := `
environment = "production"

[server]
port = 9090

[rates]
default_base = "ves"
intermediates = ["usdt", "USD", "usdt"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", config.Server.Port)
	}
	if !config.IsProduction() {
		t.Error("environment should be production")
	}
	if config.Rates.DefaultBase != "VES" {
		t.Errorf("default base = %q, want normalized VES", config.Rates.DefaultBase)
	}

	// Intermediates are uppercased and deduplicated, order preserved.
	want := []string{"USDT", "USD"}
	if len(config.Rates.Intermediates) != len(want) {
		t.Fatalf("intermediates = %v, want %v", config.Rates.Intermediates, want)
	}
	for i := range want {
		if config.Rates.Intermediates[i] != want[i] {
			t.Errorf("intermediates[%d] = %q, want %q", i, config.Rates.Intermediates[i], want[i])
		}
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CAMBIO_PORT", "7070")
	t.Setenv("CAMBIO_DEFAULT_BASE", "ars")
	t.Setenv("CAMBIO_INTERMEDIATES", "usd, usdt")
	t.Setenv("CAMBIO_STORAGE_NAMESPACE", "testing")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", config.Server.Port)
	}
	if config.Rates.DefaultBase != "ARS" {
		t.Errorf("default base = %q, want ARS", config.Rates.DefaultBase)
	}
	if len(config.Rates.Intermediates) != 2 || config.Rates.Intermediates[0] != "USD" {
		t.Errorf("intermediates = %v, want [USD USDT]", config.Rates.Intermediates)
	}
	if config.Storage.Namespace != "testing" {
		t.Errorf("namespace = %q, want testing", config.Storage.Namespace)
	}
}

func TestIsProduction(t *testing.T) {
	cases := map[string]bool{
		"production":  true,
		"prod":        true,
		"Production ": true,
		"development": false,
		"":            false,
	}
	for env, want := range cases {
		c := &Config{Environment: env}
		if got := c.IsProduction(); got != want {
			t.Errorf("IsProduction(%q) = %v, want %v", env, got, want)
		}
	}
}
