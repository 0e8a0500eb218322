package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/nephra-go/internal/catalog"
	"github.com/vrsandeep/nephra-go/internal/models"
)

// paging reads the page and page_size query parameters. Missing or invalid
// values are left at zero so the catalog applies its defaults.
func paging(r *http.Request) (page, pageSize int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	pageSize, _ = strconv.Atoi(q.Get("page_size"))
	if page < 0 {
		page = 0
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return page, pageSize
}

func respondWithList(w http.ResponseWriter, list []models.Manga, err error) {
	if err != nil {
		log.Printf("Catalog request failed: %v", err)
		RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	if list == nil {
		list = []models.Manga{}
	}
	RespondWithJSON(w, http.StatusOK, list)
}

// handleAPITop serves the ranked lists; period is "daily" (default) or "all_time".
func (s *Server) handleAPITop(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	switch r.URL.Query().Get("period") {
	case "", "daily":
		list, err := s.catalog.TopDaily(r.Context(), page, pageSize)
		respondWithList(w, list, err)
	case "all_time", "alltime":
		list, err := s.catalog.TopAllTime(r.Context(), page, pageSize)
		respondWithList(w, list, err)
	default:
		RespondWithError(w, http.StatusBadRequest, "Invalid 'period' parameter")
	}
}

func (s *Server) handleAPILatest(w http.ResponseWriter, r *http.Request) {
	listType := r.URL.Query().Get("type")
	if listType == "" {
		listType = catalog.TypeProject
	}
	if listType != catalog.TypeProject && listType != catalog.TypeMirror {
		RespondWithError(w, http.StatusBadRequest, "Invalid 'type' parameter")
		return
	}
	page, pageSize := paging(r)
	list, err := s.catalog.LatestByType(r.Context(), listType, page, pageSize)
	respondWithList(w, list, err)
}

func (s *Server) handleAPIRecommended(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "":
		format = catalog.FormatManga
	case catalog.FormatManga, catalog.FormatManhwa, catalog.FormatManhua:
	default:
		RespondWithError(w, http.StatusBadRequest, "Invalid 'format' parameter")
		return
	}
	page, pageSize := paging(r)
	list, err := s.catalog.RecommendedByFormat(r.Context(), format, page, pageSize)
	respondWithList(w, list, err)
}

// handleAPISearch answers a blank query with an empty list without calling
// the catalog.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		RespondWithJSON(w, http.StatusOK, []models.Manga{})
		return
	}
	page, pageSize := paging(r)
	list, err := s.catalog.Search(r.Context(), query, page, pageSize)
	respondWithList(w, list, err)
}

func (s *Server) handleAPICategory(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	list, err := s.catalog.ExploreCategory(r.Context(), chi.URLParam(r, "category"), page, pageSize)
	respondWithList(w, list, err)
}

func (s *Server) handleAPIMangaDetail(w http.ResponseWriter, r *http.Request) {
	detail := s.catalog.MangaDetail(r.Context(), chi.URLParam(r, "id"))
	if detail.Metadata == nil {
		RespondWithError(w, http.StatusNotFound, "Manga not found")
		return
	}
	if detail.Chapters == nil {
		detail.Chapters = []models.Chapter{}
	}
	RespondWithJSON(w, http.StatusOK, detail)
}

func (s *Server) handleAPIChapterList(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	chapters, err := s.catalog.ChapterList(r.Context(), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		log.Printf("Catalog request failed: %v", err)
		RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	RespondWithJSON(w, http.StatusOK, chapters)
}

func (s *Server) handleAPIChapterImages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.catalog.ChapterImages(r.Context(), chi.URLParam(r, "chapterID"))
	if err != nil {
		log.Printf("Catalog request failed: %v", err)
		RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, pages)
}

func respondWithRaw(w http.ResponseWriter, raw json.RawMessage, err error) {
	if err == nil && len(raw) == 0 {
		err = errors.New("empty response")
	}
	if err != nil {
		log.Printf("Catalog request failed: %v", err)
		RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) handleAPIExploreSlider(w http.ResponseWriter, r *http.Request) {
	raw, err := s.catalog.ExploreSlider(r.Context())
	respondWithRaw(w, raw, err)
}

func (s *Server) handleAPIExplorePage(w http.ResponseWriter, r *http.Request) {
	raw, err := s.catalog.ExplorePage(r.Context())
	respondWithRaw(w, raw, err)
}
