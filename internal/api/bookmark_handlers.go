package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/nephra-go/internal/bookmarks"
	"github.com/vrsandeep/nephra-go/internal/models"
)

// handleListBookmarks returns the device's bookmarked ids in insertion order.
// With ?hydrate=true the titles are resolved against the catalog and ids
// whose metadata cannot be fetched are skipped.
func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	ids, err := s.bookmarksFor(r).List()
	if err != nil {
		log.Printf("Error reading bookmarks: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to read bookmarks")
		return
	}

	if r.URL.Query().Get("hydrate") != "true" {
		if ids == nil {
			ids = []string{}
		}
		RespondWithJSON(w, http.StatusOK, ids)
		return
	}

	titles := bookmarks.Hydrate(r.Context(), s.catalog, ids)
	if titles == nil {
		titles = []models.Manga{}
	}
	RespondWithJSON(w, http.StatusOK, titles)
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.ID) == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.bookmarksFor(r).Add(payload.ID); err != nil {
		log.Printf("Error adding bookmark: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to update bookmarks")
		return
	}
	RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Added to bookmarks"})
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.bookmarksFor(r).Remove(chi.URLParam(r, "id")); err != nil {
		log.Printf("Error removing bookmark: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to update bookmarks")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
