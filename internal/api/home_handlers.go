package api

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/vrsandeep/nephra-go/internal/catalog"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/view"
)

const (
	homeTopSize         = 10
	homeRecommendedSize = 12
	exploreLatestSize   = 24
)

// fetchHomePageData loads every home section concurrently. A failed section
// is left empty.
func (s *Server) fetchHomePageData(ctx context.Context) models.HomePageData {
	var wg sync.WaitGroup
	var homeData models.HomePageData

	// Use a mutex to safely handle concurrent writes to the errors slice
	var mu sync.Mutex
	var errors []error

	fetch := func(dst *[]models.Manga, load func() ([]models.Manga, error)) {
		defer wg.Done()
		data, err := load()
		if err != nil {
			mu.Lock()
			errors = append(errors, err)
			mu.Unlock()
			return
		}
		*dst = data
	}

	wg.Add(5)
	go fetch(&homeData.TopDaily, func() ([]models.Manga, error) {
		return s.catalog.TopDaily(ctx, 1, homeTopSize)
	})
	go fetch(&homeData.TopAllTime, func() ([]models.Manga, error) {
		return s.catalog.TopAllTime(ctx, 1, homeTopSize)
	})
	go fetch(&homeData.RecommendedManga, func() ([]models.Manga, error) {
		return s.catalog.RecommendedByFormat(ctx, catalog.FormatManga, 1, homeRecommendedSize)
	})
	go fetch(&homeData.RecommendedManhwa, func() ([]models.Manga, error) {
		return s.catalog.RecommendedByFormat(ctx, catalog.FormatManhwa, 1, homeRecommendedSize)
	})
	go fetch(&homeData.RecommendedManhua, func() ([]models.Manga, error) {
		return s.catalog.RecommendedByFormat(ctx, catalog.FormatManhua, 1, homeRecommendedSize)
	})
	wg.Wait()

	for _, e := range errors {
		log.Printf("Error fetching home page data: %v", e)
	}
	return homeData
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	home := s.fetchHomePageData(r.Context())
	data := struct {
		Page
		TopDaily          []view.Card
		TopAllTime        []view.Card
		RecommendedManga  []view.Card
		RecommendedManhwa []view.Card
		RecommendedManhua []view.Card
	}{
		Page:              s.newPage(w, r, "Home", "home"),
		TopDaily:          view.NewCards(home.TopDaily),
		TopAllTime:        view.NewCards(home.TopAllTime),
		RecommendedManga:  view.NewCards(home.RecommendedManga),
		RecommendedManhwa: view.NewCards(home.RecommendedManhwa),
		RecommendedManhua: view.NewCards(home.RecommendedManhua),
	}
	s.render(w, http.StatusOK, "home.html", data)
}

func (s *Server) handleGetHomePageData(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.fetchHomePageData(r.Context()))
}

// fetchExplorePageData loads the latest project and mirror updates concurrently.
func (s *Server) fetchExplorePageData(ctx context.Context) models.ExplorePageData {
	var wg sync.WaitGroup
	var data models.ExplorePageData

	wg.Add(2)
	go func() {
		defer wg.Done()
		list, err := s.catalog.LatestByType(ctx, catalog.TypeProject, 1, exploreLatestSize)
		if err != nil {
			log.Printf("Error fetching latest projects: %v", err)
			return
		}
		data.Project = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.catalog.LatestByType(ctx, catalog.TypeMirror, 1, exploreLatestSize)
		if err != nil {
			log.Printf("Error fetching latest mirrors: %v", err)
			return
		}
		data.Mirror = list
	}()
	wg.Wait()
	return data
}

func (s *Server) handleExplorePage(w http.ResponseWriter, r *http.Request) {
	explore := s.fetchExplorePageData(r.Context())
	data := struct {
		Page
		Project []view.Card
		Mirror  []view.Card
	}{
		Page:    s.newPage(w, r, "Explore", "explore"),
		Project: view.NewCards(explore.Project),
		Mirror:  view.NewCards(explore.Mirror),
	}
	s.render(w, http.StatusOK, "explore.html", data)
}

// handleSearchPage renders search results. A blank query renders the prompt
// without calling the catalog.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page := s.newPage(w, r, "Search", "search")
	page.Query = query

	data := struct {
		Page
		Searched bool
		Results  []view.Card
	}{Page: page}

	if strings.TrimSpace(query) != "" {
		data.Searched = true
		results, err := s.catalog.Search(r.Context(), query, 1, 0)
		if err != nil {
			log.Printf("Error searching catalog: %v", err)
		}
		data.Results = view.NewCards(results)
	}
	s.render(w, http.StatusOK, "search.html", data)
}
