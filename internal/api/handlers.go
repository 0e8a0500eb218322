package api

import (
	"net/http"

	"github.com/Masterminds/semver/v3"
)

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	v, err := semver.NewVersion(s.app.Version)
	if err != nil {
		RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version})
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"version":    v.String(),
		"major":      v.Major(),
		"minor":      v.Minor(),
		"patch":      v.Patch(),
		"prerelease": v.Prerelease() != "",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderNotFound(w, r, "Page not found")
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	data := struct {
		Page
		Message string
		Path    string
	}{
		Page:    s.newPage(w, r, message, ""),
		Message: message,
		Path:    r.URL.Path,
	}
	s.render(w, http.StatusNotFound, "notfound.html", data)
}
