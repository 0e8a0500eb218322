package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/vrsandeep/nephra-go/internal/assets"
	"github.com/vrsandeep/nephra-go/internal/auth"
	"github.com/vrsandeep/nephra-go/internal/catalog"
	"github.com/vrsandeep/nephra-go/internal/config"
	"github.com/vrsandeep/nephra-go/internal/db"
	"github.com/vrsandeep/nephra-go/internal/jobs"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/session"
	"github.com/vrsandeep/nephra-go/internal/store"
	"github.com/vrsandeep/nephra-go/internal/websocket"
)

// Version is the application version, overridden at build time with
// -ldflags "-X github.com/vrsandeep/nephra-go/internal/core.Version=...".
var Version = "0.1.0"

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	cfg        *config.Config
	db         *sql.DB
	store      *store.Store
	catalog    *catalog.Catalog
	sessions   *session.Manager
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	Version    string
}

// New loads config.yml and sets up a new App from it.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig sets up a new App. It opens and migrates the database,
// builds the catalog client and the per-device session manager, and starts
// the websocket hub.
func NewWithConfig(cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.Database.Path, assets.MigrationsFS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		cfg:     cfg,
		db:      database,
		store:   store.New(database),
		catalog: catalog.NewFromConfig(cfg),
		wsHub:   websocket.NewHub(),
		Version: Version,
	}
	go app.wsHub.Run()

	if !cfg.AuthConfigured() {
		log.Println("Warning: auth is not configured, sign-in is disabled.")
	}
	app.sessions, err = session.NewManager(cfg.Session.MaxProviders, app.newBackend)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}
	app.sessions.OnCreate(app.pushSessionUpdates)

	app.jobManager = jobs.NewManager(app)
	jobs.RegisterJobs(app.jobManager)

	log.Println("Core application setup complete.")
	return app, nil
}

// newBackend builds the auth backend of a device, or nil when auth is not
// configured.
func (a *App) newBackend(deviceID string) session.Backend {
	if !a.cfg.AuthConfigured() {
		return nil
	}
	kv := a.store.DeviceStorage(deviceID)
	if a.cfg.Auth.Backend == "local" {
		return auth.NewLocal(a.store, kv)
	}
	return auth.NewGoTrue(a.cfg.Auth.URL, a.cfg.Auth.AnonKey, kv)
}

// pushSessionUpdates forwards identity changes of a device to its websockets.
func (a *App) pushSessionUpdates(deviceID string, p *session.Provider) {
	p.Subscribe(func(identity *models.Identity) {
		a.wsHub.SendJSON(deviceID, SessionUpdate(p))
	})
}

// SessionUpdate snapshots the state of p for the websocket and JSON API.
func SessionUpdate(p *session.Provider) models.SessionUpdate {
	return models.SessionUpdate{
		Type:       "session",
		Configured: p.Configured(),
		Loading:    p.Loading(),
		User:       p.Identity(),
	}
}

func (a *App) Config() *config.Config       { return a.cfg }
func (a *App) DB() *sql.DB                  { return a.db }
func (a *App) Store() *store.Store          { return a.store }
func (a *App) Catalog() *catalog.Catalog    { return a.catalog }
func (a *App) Sessions() *session.Manager   { return a.sessions }
func (a *App) WsHub() *websocket.Hub        { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

// Close releases every provider and closes the database.
func (a *App) Close() {
	if a.sessions != nil {
		a.sessions.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
