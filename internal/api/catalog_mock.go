package api

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
	"github.com/vrsandeep/nephra-go/internal/models"
)

// MockCatalog is a mock implementation of the CatalogService interface
type MockCatalog struct {
	mock.Mock
}

func mangaList(args mock.Arguments) ([]models.Manga, error) {
	list, _ := args.Get(0).([]models.Manga)
	return list, args.Error(1)
}

// TopDaily mocks the TopDaily method
func (m *MockCatalog) TopDaily(ctx context.Context, page, pageSize int) ([]models.Manga, error) {
	return mangaList(m.Called(page, pageSize))
}

// TopAllTime mocks the TopAllTime method
func (m *MockCatalog) TopAllTime(ctx context.Context, page, pageSize int) ([]models.Manga, error) {
	return mangaList(m.Called(page, pageSize))
}

// LatestByType mocks the LatestByType method
func (m *MockCatalog) LatestByType(ctx context.Context, listType string, page, pageSize int) ([]models.Manga, error) {
	return mangaList(m.Called(listType, page, pageSize))
}

// RecommendedByFormat mocks the RecommendedByFormat method
func (m *MockCatalog) RecommendedByFormat(ctx context.Context, format string, page, pageSize int) ([]models.Manga, error) {
	return mangaList(m.Called(format, page, pageSize))
}

// Search mocks the Search method
func (m *MockCatalog) Search(ctx context.Context, query string, page, pageSize int) ([]models.Manga, error) {
	return mangaList(m.Called(query, page, pageSize))
}

// ExploreCategory mocks the ExploreCategory method
func (m *MockCatalog) ExploreCategory(ctx context.Context, category string, page, pageSize int) ([]models.Manga, error) {
	return mangaList(m.Called(category, page, pageSize))
}

// ExploreSlider mocks the ExploreSlider method
func (m *MockCatalog) ExploreSlider(ctx context.Context) (json.RawMessage, error) {
	args := m.Called()
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// ExplorePage mocks the ExplorePage method
func (m *MockCatalog) ExplorePage(ctx context.Context) (json.RawMessage, error) {
	args := m.Called()
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// MangaDetail mocks the MangaDetail method
func (m *MockCatalog) MangaDetail(ctx context.Context, id string) *models.MangaDetail {
	args := m.Called(id)
	return args.Get(0).(*models.MangaDetail)
}

// ChapterList mocks the ChapterList method
func (m *MockCatalog) ChapterList(ctx context.Context, mangaID string, page, pageSize int) ([]models.Chapter, error) {
	args := m.Called(mangaID, page, pageSize)
	list, _ := args.Get(0).([]models.Chapter)
	return list, args.Error(1)
}

// ChapterImages mocks the ChapterImages method
func (m *MockCatalog) ChapterImages(ctx context.Context, chapterID string) (*models.ChapterPages, error) {
	args := m.Called(chapterID)
	pages, _ := args.Get(0).(*models.ChapterPages)
	return pages, args.Error(1)
}

// AddView mocks the AddView method
func (m *MockCatalog) AddView(ctx context.Context, mangaID, chapterID string) {
	m.Called(mangaID, chapterID)
}
