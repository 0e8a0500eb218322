// Shared test server setup, which simplifies all API tests.

package testutil

import (
	"testing"

	"github.com/vrsandeep/nephra-go/internal/api"
	"github.com/vrsandeep/nephra-go/internal/config"
	"github.com/vrsandeep/nephra-go/internal/core"
)

// TestConfig returns a config with an in-memory database and the local auth
// backend. The resource proxy may reach httptest servers on loopback.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Path = ":memory:"
	cfg.Auth.Backend = "local"
	cfg.Session.MaxProviders = 16
	cfg.Jobs.SessionCleanupInterval = 60
	cfg.Proxy.AllowPrivateTargets = true
	return cfg
}

// SetupTestApp builds a full core.App on the given config. A nil config uses
// TestConfig.
func SetupTestApp(t *testing.T, cfg *config.Config) *core.App {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	app, err := core.NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to set up test app: %v", err)
	}
	app.Version = "test"
	t.Cleanup(func() {
		app.JobManager().Wait()
		app.Close()
	})
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration
// testing. The catalog is replaced by a mock so no request leaves the process.
func SetupTestServer(t *testing.T) (*api.Server, *api.MockCatalog) {
	t.Helper()
	return SetupTestServerWithConfig(t, TestConfig())
}

// SetupTestServerWithConfig is SetupTestServer on a custom config.
func SetupTestServerWithConfig(t *testing.T, cfg *config.Config) (*api.Server, *api.MockCatalog) {
	t.Helper()
	app := SetupTestApp(t, cfg)
	server := api.NewServer(app)
	catalog := new(api.MockCatalog)
	server.SetCatalog(catalog)
	return server, catalog
}
