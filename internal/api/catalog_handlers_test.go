package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/nephra-go/internal/catalog"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/testutil"
)

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []models.Manga {
	t.Helper()
	var list []models.Manga
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list), rr.Body.String())
	return list
}

func TestCatalogListHandlers(t *testing.T) {
	server, mockCatalog := testutil.SetupTestServer(t)
	router := server.Router()
	list := []models.Manga{sampleManga("m1", "Solo Leveling"), sampleManga("m2", "Omniscient Reader")}

	mockCatalog.On("TopDaily", 0, 0).Return(list, nil)
	mockCatalog.On("TopAllTime", 2, 10).Return(list[:1], nil)
	mockCatalog.On("LatestByType", catalog.TypeMirror, 1, 24).Return(list, nil)
	mockCatalog.On("RecommendedByFormat", catalog.FormatManhua, 0, 0).Return(list[1:], nil)
	mockCatalog.On("ExploreCategory", "action", 3, 0).Return(list, nil)

	testCases := []struct {
		name     string
		target   string
		expected int
	}{
		{"Top Daily Default", "/api/manga/top", 2},
		{"Top All Time Paged", "/api/manga/top?period=all_time&page=2&page_size=10", 1},
		{"Latest Mirror", "/api/manga/latest?type=mirror&page=1&page_size=24", 2},
		{"Recommended Manhua", "/api/manga/recommended?format=manhua", 1},
		{"Category", "/api/manga/category/action?page=3", 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(router, httptest.NewRequest(http.MethodGet, tc.target, nil))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Len(t, decodeList(t, rr), tc.expected)
		})
	}

	t.Run("Invalid Parameters", func(t *testing.T) {
		for _, target := range []string{
			"/api/manga/top?period=weekly",
			"/api/manga/latest?type=scanlation",
			"/api/manga/recommended?format=comic",
		} {
			rr := serve(router, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		}
	})

	mockCatalog.AssertExpectations(t)
}

func TestCatalogUpstreamFailure(t *testing.T) {
	server, mockCatalog := testutil.SetupTestServer(t)
	router := server.Router()

	mockCatalog.On("LatestByType", catalog.TypeProject, 0, 0).Return(nil, errors.New("upstream returned 500"))
	mockCatalog.On("ChapterImages", "c1").Return(nil, errors.New("Invalid chapter data"))
	mockCatalog.On("ExploreSlider").Return(nil, errors.New("timeout"))

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/manga/latest", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "upstream returned 500")

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/chapters/c1/images", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid chapter data"}`, rr.Body.String())

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/explore/slider", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHandleAPISearch(t *testing.T) {
	server, mockCatalog := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Blank Query Skips Catalog", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/manga/search?q=%20%20", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
		mockCatalog.AssertNumberOfCalls(t, "Search", 0)
	})

	t.Run("Query", func(t *testing.T) {
		mockCatalog.On("Search", "solo leveling", 1, 0).Return([]models.Manga{sampleManga("m1", "Solo Leveling")}, nil).Once()
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/manga/search?q=solo+leveling&page=1", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		list := decodeList(t, rr)
		require.Len(t, list, 1)
		assert.Equal(t, "m1", list[0].ID)
	})

	t.Run("No Results", func(t *testing.T) {
		mockCatalog.On("Search", "zzz", 0, 0).Return(nil, nil).Once()
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/manga/search?q=zzz", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestHandleAPIMangaDetail(t *testing.T) {
	server, mockCatalog := testutil.SetupTestServer(t)
	router := server.Router()

	manga := sampleManga("m1", "Solo Leveling")
	mockCatalog.On("MangaDetail", "m1").Return(&models.MangaDetail{Metadata: &manga})
	mockCatalog.On("MangaDetail", "gone").Return(&models.MangaDetail{})
	mockCatalog.On("ChapterList", "m1", 0, 0).Return([]models.Chapter{{ChapterID: "c1", ChapterNumber: 1}}, nil)

	t.Run("Found", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/manga/m1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var detail models.MangaDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
		require.NotNil(t, detail.Metadata)
		assert.Equal(t, "Solo Leveling", detail.Metadata.Title)
		assert.NotNil(t, detail.Chapters)
	})

	t.Run("Missing Metadata", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/manga/gone", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Manga not found"}`, rr.Body.String())
	})

	t.Run("Chapter List", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/manga/m1/chapters", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var chapters []models.Chapter
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &chapters))
		require.Len(t, chapters, 1)
		assert.Equal(t, "c1", chapters[0].ChapterID)
	})
}

func TestHandleAPIChapterImages(t *testing.T) {
	server, mockCatalog := testutil.SetupTestServer(t)
	pages := &models.ChapterPages{
		Info:   &models.Chapter{ChapterID: "c1", ChapterNumber: 12.5},
		Images: []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
	}
	mockCatalog.On("ChapterImages", "c1").Return(pages, nil)

	rr := serve(server.Router(), httptest.NewRequest(http.MethodGet, "/api/chapters/c1/images", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got models.ChapterPages
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, pages.Images, got.Images)
	assert.Equal(t, 12.5, got.Info.ChapterNumber)
}

func TestExploreRawPassthrough(t *testing.T) {
	server, mockCatalog := testutil.SetupTestServer(t)
	mockCatalog.On("ExplorePage").Return(json.RawMessage(`{"sections":[{"name":"hot"}]}`), nil)

	rr := serve(server.Router(), httptest.NewRequest(http.MethodGet, "/api/explore/page", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"sections":[{"name":"hot"}]}`, rr.Body.String())
}
