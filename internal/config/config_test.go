package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "quotemux" {
		t.Errorf("app.name = %s", cfg.App.Name)
	}
	if cfg.Ethereum.ChainID != 1 {
		t.Errorf("ethereum.chain_id = %d", cfg.Ethereum.ChainID)
	}

	sc := cfg.Source("openocean")
	if !sc.Enabled {
		t.Error("sources should default to enabled")
	}
	if sc.RequestsPerMinute != 60 {
		t.Errorf("requests_per_minute = %d", sc.RequestsPerMinute)
	}
	if sc.Timeout != 10*time.Second {
		t.Errorf("timeout = %s", sc.Timeout)
	}
	if got := len(cfg.EnabledSources()); got != len(SourceNames) {
		t.Errorf("enabled sources = %d, want %d", got, len(SourceNames))
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  name: quotemux-test
  log_level: debug
sources:
  lifi:
    enabled: false
  oneinch:
    api_key: secret
    requests_per_minute: 30
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "quotemux-test" {
		t.Errorf("app.name = %s", cfg.App.Name)
	}
	if cfg.Source("lifi").Enabled {
		t.Error("lifi should be disabled")
	}
	if cfg.Source("oneinch").APIKey != "secret" {
		t.Error("oneinch api key not read")
	}
	if cfg.Source("oneinch").RequestsPerMinute != 30 {
		t.Errorf("oneinch rpm = %d", cfg.Source("oneinch").RequestsPerMinute)
	}

	enabled := cfg.EnabledSources()
	for _, name := range enabled {
		if name == "lifi" {
			t.Error("lifi present in enabled sources")
		}
	}
}

func TestValidateRejectsNegativeLimits(t *testing.T) {
	cfg := &Config{
		Sources: map[string]SourceConfig{
			"openocean": {RequestsPerMinute: -1},
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}
}
