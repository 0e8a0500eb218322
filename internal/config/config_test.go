// Verifies the configuration loading logic using Viper.

package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		// Ensure no config file exists for this test
		os.Remove("config.yml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		if cfg.Port != 8080 {
			t.Errorf("Expected default port 8080, got %d", cfg.Port)
		}
		if cfg.Database.Path != "./nephra.db" {
			t.Errorf("Expected default db path './nephra.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Catalog.BaseURL != "https://api.shngm.io/v1" {
			t.Errorf("Expected default catalog base url, got '%s'", cfg.Catalog.BaseURL)
		}
		if cfg.Catalog.TimeoutSeconds != 0 {
			t.Errorf("Expected no catalog timeout by default, got %d", cfg.Catalog.TimeoutSeconds)
		}
		if cfg.Auth.Backend != "gotrue" {
			t.Errorf("Expected default auth backend 'gotrue', got '%s'", cfg.Auth.Backend)
		}
		if cfg.AuthConfigured() {
			t.Error("Expected auth to be unconfigured without url and key")
		}
		if cfg.Proxy.AllowPrivateTargets {
			t.Error("Expected the proxy to refuse private targets by default")
		}
	})

	t.Run("Loads from config file", func(t *testing.T) {
		configContent := `
port: 9999
database:
  path: "/tmp/test.db"
catalog:
  base_url: "http://upstream.local/v1"
auth:
  url: "http://auth.local"
  anon_key: "public-key"
unknown_setting: "should be ignored"
`
		// Viper looks in the CWD, so t.TempDir() cannot be used here.
		configPath := "config.yml"
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config file: %v", err)
		}
		defer os.Remove(configPath)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		if cfg.Port != 9999 {
			t.Errorf("Expected port 9999, got %d", cfg.Port)
		}
		if cfg.Database.Path != "/tmp/test.db" {
			t.Errorf("Expected db path '/tmp/test.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Catalog.BaseURL != "http://upstream.local/v1" {
			t.Errorf("Expected catalog base url from file, got '%s'", cfg.Catalog.BaseURL)
		}
		if cfg.Session.MaxProviders != 1024 {
			t.Errorf("Expected default max providers of 1024, got %d", cfg.Session.MaxProviders)
		}
		if !cfg.AuthConfigured() {
			t.Error("Expected auth to be configured when url and key are set")
		}
	})

	t.Run("Environment overrides", func(t *testing.T) {
		os.Remove("config.yml")
		t.Setenv("NEPHRA_AUTH_BACKEND", "local")
		t.Setenv("NEPHRA_PORT", "7070")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}
		if cfg.Port != 7070 {
			t.Errorf("Expected port 7070 from env, got %d", cfg.Port)
		}
		if !cfg.AuthConfigured() {
			t.Error("Expected local auth backend to count as configured")
		}
	})
}
