package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"STORAGE_PATH", "FETCH_PROGRESS_INTERVAL", "HISTORY_ENABLED", "HISTORY_PATH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Storage.BasePath != "downloads" {
		t.Errorf("BasePath = %q, want %q", cfg.Storage.BasePath, "downloads")
	}
	if cfg.Fetch.ProgressInterval != 500*time.Millisecond {
		t.Errorf("ProgressInterval = %v, want 500ms", cfg.Fetch.ProgressInterval)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_PATH", "/tmp/media")
	t.Setenv("HISTORY_ENABLED", "true")
	t.Setenv("HISTORY_PATH", "/tmp/history.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.BasePath != "/tmp/media" {
		t.Errorf("BasePath = %q, want %q", cfg.Storage.BasePath, "/tmp/media")
	}
	if !cfg.History.Enabled {
		t.Error("history should be enabled")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  host: 127.0.0.1
  port: 9191
storage:
  base_path: /srv/downloads
fetch:
  progress_interval: 250ms
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Storage.BasePath != "/srv/downloads" {
		t.Errorf("BasePath = %q, want %q", cfg.Storage.BasePath, "/srv/downloads")
	}
	if cfg.Fetch.ProgressInterval != 250*time.Millisecond {
		t.Errorf("ProgressInterval = %v, want 250ms", cfg.Fetch.ProgressInterval)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load("/no/such/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty storage path", func(c *Config) { c.Storage.BasePath = "" }, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"history enabled without path", func(c *Config) {
			c.History.Enabled = true
			c.History.Path = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
				Storage: StorageConfig{BasePath: "downloads"},
				History: HistoryConfig{Path: "data/history.db"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := cfg.Address(); got != "127.0.0.1:8080" {
		t.Errorf("Address() = %q, want %q", got, "127.0.0.1:8080")
	}
}
