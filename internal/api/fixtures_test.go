package api_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/vrsandeep/nephra-go/internal/models"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func int64Ptr(i int64) *int64     { return &i }
func floatPtr(f float64) *float64 { return &f }

func sampleManga(id, title string) models.Manga {
	return models.Manga{
		ID:            id,
		Title:         title,
		CoverImageURL: "https://cdn.example.com/" + id + ".jpg",
		UserRate:      floatPtr(8.75),
		Taxonomy: &models.Taxonomy{
			Genre:  []models.TaxonomyEntry{{Name: "Action"}, {Name: "Fantasy"}, {Name: "Drama"}, {Name: "Comedy"}},
			Type:   []models.TaxonomyEntry{{Name: "Project"}},
			Format: []models.TaxonomyEntry{{Name: "Manhwa"}},
		},
	}
}

// serve runs req through the router and returns the recorder.
func serve(h http.Handler, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
