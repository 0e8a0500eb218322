package api

import (
	"context"
	"encoding/json"

	"github.com/vrsandeep/nephra-go/internal/models"
)

// CatalogService defines the catalog queries the handlers depend on.
// *catalog.Catalog is the production implementation.
type CatalogService interface {
	TopDaily(ctx context.Context, page, pageSize int) ([]models.Manga, error)
	TopAllTime(ctx context.Context, page, pageSize int) ([]models.Manga, error)
	LatestByType(ctx context.Context, listType string, page, pageSize int) ([]models.Manga, error)
	RecommendedByFormat(ctx context.Context, format string, page, pageSize int) ([]models.Manga, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]models.Manga, error)
	ExploreCategory(ctx context.Context, category string, page, pageSize int) ([]models.Manga, error)
	ExploreSlider(ctx context.Context) (json.RawMessage, error)
	ExplorePage(ctx context.Context) (json.RawMessage, error)
	MangaDetail(ctx context.Context, id string) *models.MangaDetail
	ChapterList(ctx context.Context, mangaID string, page, pageSize int) ([]models.Chapter, error)
	ChapterImages(ctx context.Context, chapterID string) (*models.ChapterPages, error)
	AddView(ctx context.Context, mangaID, chapterID string)
}
