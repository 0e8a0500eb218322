// It defines the HTTP server, sets up the routes (pages, JSON API and
// websocket) using chi, and links them to the handler functions.

package api

import (
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vrsandeep/nephra-go/internal/assets"
	"github.com/vrsandeep/nephra-go/internal/core"
	"github.com/vrsandeep/nephra-go/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app       *core.App
	store     *store.Store
	catalog   CatalogService
	templates map[string]*template.Template
	proxy     *http.Client
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// SetCatalog replaces the catalog for testing purposes
func (s *Server) SetCatalog(catalog CatalogService) {
	s.catalog = catalog
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	templates, err := parseTemplates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	return &Server{
		app:       app,
		store:     app.Store(),
		catalog:   app.Catalog(),
		templates: templates,
		proxy:     newProxyClient(app.Config().Proxy.AllowPrivateTargets),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics

	webSubFS, err := fs.Sub(assets.WebFS, "web")
	if err != nil {
		log.Fatalf("Failed to create web sub-filesystem: %v", err)
	}
	staticFS, err := fs.Sub(webSubFS, "static")
	if err != nil {
		log.Fatalf("Failed to create static sub-filesystem: %v", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/api/version", s.handleGetVersion)
	r.Get("/api/health", s.handleHealth)

	// Resource Proxy (cover images and chapter pages), for devices that
	// already loaded a page
	r.With(s.RequireDeviceMiddleware).Get("/api/proxy/resource", s.handleProxyResource)

	r.Group(func(r chi.Router) {
		r.Use(s.DeviceMiddleware)

		// The websocket lives outside the timeout middleware.
		r.Get("/ws/session", s.handleSessionSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/api", func(r chi.Router) {
				r.NotFound(func(w http.ResponseWriter, r *http.Request) {
					RespondWithError(w, http.StatusNotFound, "Not found")
				})

				r.Get("/home", s.handleGetHomePageData)
				r.Get("/manga/top", s.handleAPITop)
				r.Get("/manga/latest", s.handleAPILatest)
				r.Get("/manga/recommended", s.handleAPIRecommended)
				r.Get("/manga/search", s.handleAPISearch)
				r.Get("/manga/category/{category}", s.handleAPICategory)
				r.Get("/manga/{id}", s.handleAPIMangaDetail)
				r.Get("/manga/{id}/chapters", s.handleAPIChapterList)
				r.Get("/chapters/{chapterID}/images", s.handleAPIChapterImages)
				r.Get("/explore/slider", s.handleAPIExploreSlider)
				r.Get("/explore/page", s.handleAPIExplorePage)

				r.Get("/bookmarks", s.handleListBookmarks)
				r.Post("/bookmarks", s.handleAddBookmark)
				r.Delete("/bookmarks/{id}", s.handleRemoveBookmark)

				r.Get("/session", s.handleGetSession)
				r.Post("/session/login", s.handleAPILogin)
				r.Post("/session/signup", s.handleAPISignup)
				r.Post("/session/logout", s.handleAPILogout)

				// Background jobs, for signed-in devices only
				r.Route("/admin", func(r chi.Router) {
					r.Use(s.RequireIdentityMiddleware)

					r.Get("/jobs/status", s.handleGetAdminJobsStatus)
					r.Post("/jobs/run", s.handleRunAdminJob)
				})
			})

			// Pages
			r.Get("/", s.handleHomePage)
			r.Get("/explore", s.handleExplorePage)
			r.Get("/search", s.handleSearchPage)
			r.Get("/bookmarks", s.handleBookmarksPage)
			r.Get("/manga/{id}", s.handleMangaPage)
			r.Post("/manga/{id}/bookmark", s.handleToggleBookmark)
			r.Get("/manga/{mangaId}/chapter/{chapterId}", s.handleReaderPage)

			r.Get("/login", s.handleLoginPage)
			r.Post("/login", s.handleLoginSubmit)
			r.Get("/signup", s.handleSignupPage)
			r.Post("/signup", s.handleSignupSubmit)
			r.Post("/logout", s.handleLogoutSubmit)
		})
	})

	r.NotFound(s.DeviceMiddleware(http.HandlerFunc(s.handleNotFound)).ServeHTTP)

	return r
}
