// Package catalog is the data-access layer for the upstream catalog API.
// Every named query is a fixed URL template plus query-string defaults,
// delegated to FetchJSON.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/vrsandeep/nephra-go/internal/config"
	"github.com/vrsandeep/nephra-go/internal/models"
)

// Listing types accepted by LatestByType.
const (
	TypeProject = "project"
	TypeMirror  = "mirror"
)

// Formats accepted by RecommendedByFormat.
const (
	FormatManga  = "manga"
	FormatManhwa = "manhwa"
	FormatManhua = "manhua"
)

// Top chart filters.
const (
	FilterDaily   = "daily"
	FilterAllTime = "all_time"
)

const (
	defaultTopPageSize         = 10
	defaultLatestPageSize      = 24
	defaultRecommendedPageSize = 10
	defaultSearchPageSize      = 24
	defaultCategoryPageSize    = 9
	// The chapter list is not really paginated; 1000 is "everything".
	defaultChapterPageSize = 1000
)

// Options configures the upstream endpoints used by a Catalog.
type Options struct {
	BaseURL   string
	ViewURL   string
	OdinURL   string
	SliderURL string
	// Timeout for upstream requests. Zero means no timeout.
	Timeout time.Duration
}

// Catalog exposes the named catalog queries.
type Catalog struct {
	client *http.Client
	opts   Options
}

// New creates a Catalog for the given endpoints.
func New(opts Options) *Catalog {
	return &Catalog{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// NewFromConfig creates a Catalog from the application configuration.
func NewFromConfig(cfg *config.Config) *Catalog {
	return New(Options{
		BaseURL:   cfg.Catalog.BaseURL,
		ViewURL:   cfg.Catalog.ViewURL,
		OdinURL:   cfg.Catalog.OdinURL,
		SliderURL: cfg.Catalog.SliderURL,
		Timeout:   time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second,
	})
}

func pageDefaults(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

func (c *Catalog) listURL(path string, q url.Values) string {
	return fmt.Sprintf("%s%s?%s", c.opts.BaseURL, path, q.Encode())
}

func (c *Catalog) top(ctx context.Context, filter string, page, pageSize int) ([]models.Manga, error) {
	page, pageSize = pageDefaults(page, pageSize, defaultTopPageSize)
	q := url.Values{}
	q.Set("filter", filter)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return FetchJSON[[]models.Manga](ctx, c.client, c.listURL("/manga/top", q))
}

// TopDaily returns the daily top chart.
func (c *Catalog) TopDaily(ctx context.Context, page, pageSize int) ([]models.Manga, error) {
	return c.top(ctx, FilterDaily, page, pageSize)
}

// TopAllTime returns the all-time top chart.
func (c *Catalog) TopAllTime(ctx context.Context, page, pageSize int) ([]models.Manga, error) {
	return c.top(ctx, FilterAllTime, page, pageSize)
}

// LatestByType returns recently updated titles of a listing type.
func (c *Catalog) LatestByType(ctx context.Context, listType string, page, pageSize int) ([]models.Manga, error) {
	if listType != TypeProject && listType != TypeMirror {
		listType = TypeProject
	}
	page, pageSize = pageDefaults(page, pageSize, defaultLatestPageSize)
	q := url.Values{}
	q.Set("type", listType)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("is_update", "true")
	q.Set("sort", "latest")
	q.Set("sort_order", "desc")
	return FetchJSON[[]models.Manga](ctx, c.client, c.listURL("/manga/list", q))
}

// RecommendedByFormat returns recommended titles of a format.
func (c *Catalog) RecommendedByFormat(ctx context.Context, format string, page, pageSize int) ([]models.Manga, error) {
	switch format {
	case FormatManga, FormatManhwa, FormatManhua:
	default:
		format = FormatManga
	}
	page, pageSize = pageDefaults(page, pageSize, defaultRecommendedPageSize)
	q := url.Values{}
	q.Set("format", format)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("is_recommended", "true")
	q.Set("sort", "latest")
	q.Set("sort_order", "desc")
	return FetchJSON[[]models.Manga](ctx, c.client, c.listURL("/manga/list", q))
}

// Search runs a free-text title search. Callers are expected to skip
// empty queries themselves.
func (c *Catalog) Search(ctx context.Context, query string, page, pageSize int) ([]models.Manga, error) {
	page, pageSize = pageDefaults(page, pageSize, defaultSearchPageSize)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("genre_include_mode", "or")
	q.Set("genre_exclude_mode", "or")
	q.Set("sort", "latest")
	q.Set("sort_order", "desc")
	q.Set("q", query)
	return FetchJSON[[]models.Manga](ctx, c.client, c.listURL("/manga/list", q))
}

// ExploreCategory lists titles of an explore category.
func (c *Catalog) ExploreCategory(ctx context.Context, category string, page, pageSize int) ([]models.Manga, error) {
	page, pageSize = pageDefaults(page, pageSize, defaultCategoryPageSize)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("category", category)
	return FetchJSON[[]models.Manga](ctx, c.client, c.listURL("/manga/list", q))
}

// ExploreSlider returns the explore slider payload untouched.
func (c *Catalog) ExploreSlider(ctx context.Context) (json.RawMessage, error) {
	return FetchJSON[json.RawMessage](ctx, c.client, c.opts.SliderURL+"/slider/explore-1")
}

// ExplorePage returns the explore page layout payload untouched.
func (c *Catalog) ExplorePage(ctx context.Context) (json.RawMessage, error) {
	return FetchJSON[json.RawMessage](ctx, c.client, c.opts.OdinURL+"/pages/explore")
}

// GetManga fetches a single title's metadata.
func (c *Catalog) GetManga(ctx context.Context, id string) (*models.Manga, error) {
	u := fmt.Sprintf("%s/manga/detail/%s", c.opts.BaseURL, url.PathEscape(id))
	return FetchJSON[*models.Manga](ctx, c.client, u)
}

// MangaDetail fetches metadata and the chapter list concurrently. It never
// fails as a whole: a failed part is left nil or empty.
func (c *Catalog) MangaDetail(ctx context.Context, id string) *models.MangaDetail {
	var wg sync.WaitGroup
	var metadata *models.Manga
	var chapters []models.Chapter

	wg.Add(2)
	go func() {
		defer wg.Done()
		m, err := c.GetManga(ctx, id)
		if err == nil {
			metadata = m
		}
	}()
	go func() {
		defer wg.Done()
		list, err := c.ChapterList(ctx, id, 1, defaultChapterPageSize)
		if err == nil {
			chapters = list
		}
	}()
	wg.Wait()

	if chapters == nil {
		chapters = []models.Chapter{}
	}
	return &models.MangaDetail{Metadata: metadata, Chapters: chapters}
}

// ChapterList returns a title's chapters as ordered by the upstream
// (chapter number, descending). The order is never changed here.
func (c *Catalog) ChapterList(ctx context.Context, mangaID string, page, pageSize int) ([]models.Chapter, error) {
	page, pageSize = pageDefaults(page, pageSize, defaultChapterPageSize)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("sort_by", "chapter_number")
	q.Set("sort_order", "desc")
	return FetchJSON[[]models.Chapter](ctx, c.client, c.listURL("/chapter/"+url.PathEscape(mangaID)+"/list", q))
}

// chapterDetail is the wire shape of /chapter/detail/{id}.
type chapterDetail struct {
	BaseURL       string  `json:"base_url"`
	ChapterID     string  `json:"chapter_id"`
	ChapterNumber float64 `json:"chapter_number"`
	ChapterTitle  *string `json:"chapter_title"`
	CreatedAt     string  `json:"created_at"`
	Chapter       *struct {
		models.Chapter
		Path string   `json:"path"`
		Data []string `json:"data"`
	} `json:"chapter"`
}

// ChapterImages fetches a chapter and assembles its page URLs as
// base_url + path + filename, in upstream order.
func (c *Catalog) ChapterImages(ctx context.Context, chapterID string) (*models.ChapterPages, error) {
	u := fmt.Sprintf("%s/chapter/detail/%s", c.opts.BaseURL, url.PathEscape(chapterID))
	detail, err := FetchJSON[chapterDetail](ctx, c.client, u)
	if err == ErrEmptyEnvelope {
		return nil, ErrInvalidChapterData
	}
	if err != nil {
		return nil, err
	}

	if detail.BaseURL == "" || detail.Chapter == nil || detail.Chapter.Path == "" || detail.Chapter.Data == nil {
		log.Printf("Chapter Images Error: chapter %s: %v", chapterID, ErrInvalidChapterData)
		return nil, ErrInvalidChapterData
	}

	images := make([]string, 0, len(detail.Chapter.Data))
	for _, filename := range detail.Chapter.Data {
		images = append(images, detail.BaseURL+detail.Chapter.Path+filename)
	}

	info := detail.Chapter.Chapter
	if info.ChapterID == "" {
		info.ChapterID = detail.ChapterID
	}
	if info.ChapterNumber == 0 {
		info.ChapterNumber = detail.ChapterNumber
	}
	if info.Title == nil {
		info.Title = detail.ChapterTitle
	}
	if info.CreatedAt == "" {
		info.CreatedAt = detail.CreatedAt
	}
	return &models.ChapterPages{Info: &info, Images: images}, nil
}

// AddView records a chapter view upstream. It is best effort: the request
// runs in the background on a context detached from ctx's cancellation,
// the result is ignored and failures are only logged.
func (c *Catalog) AddView(ctx context.Context, mangaID, chapterID string) {
	if mangaID == "" || chapterID == "" {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		body := map[string]string{"manga_id": mangaID, "chapter_id": chapterID}
		if err := postJSON(bg, c.client, c.opts.ViewURL+"/chapter/add-view", body); err != nil {
			log.Printf("Warning: failed to record chapter view: %v", err)
		}
	}()
}
