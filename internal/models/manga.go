// This file defines the catalog data structures (models) for our application.
// They mirror the JSON shapes returned by the upstream catalog API. Fields the
// upstream may omit are pointers so callers can tell "absent" from "zero".

package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Status codes reported by the upstream catalog.
const (
	StatusOngoing = 1
)

// TaxonomyEntry is a single tag attached to a title.
type TaxonomyEntry struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Taxonomy groups a title's tags by category. Every category is optional.
type Taxonomy struct {
	Genre  []TaxonomyEntry `json:"Genre,omitempty"`
	Format []TaxonomyEntry `json:"Format,omitempty"`
	Type   []TaxonomyEntry `json:"Type,omitempty"`
	Author []TaxonomyEntry `json:"Author,omitempty"`
	Artist []TaxonomyEntry `json:"Artist,omitempty"`
}

// Manga represents a single manga, manhwa or manhua title.
type Manga struct {
	ID                  string      `json:"manga_id"`
	Title               string      `json:"title"`
	CoverImageURL       string      `json:"cover_image_url"`
	AlternativeTitle    *string     `json:"alternative_title,omitempty"`
	Description         *string     `json:"description,omitempty"`
	Status              *int        `json:"status,omitempty"`
	ReleaseYear         *FlexString `json:"release_year,omitempty"`
	UserRate            *float64    `json:"user_rate,omitempty"`
	ViewCount           *int64      `json:"view_count,omitempty"`
	BookmarkCount       *int64      `json:"bookmark_count,omitempty"`
	Rank                *int        `json:"rank,omitempty"`
	LatestChapterNumber *float64    `json:"latest_chapter_number,omitempty"`
	Taxonomy            *Taxonomy   `json:"taxonomy,omitempty"`
}

// FlexString holds a scalar the upstream sends either as a string or as a
// number. Any other JSON kind decodes to "" instead of failing the payload.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	default:
		*f = ""
	}
	return nil
}

// Genres returns the genre names in upstream order. Safe on a nil taxonomy.
func (m *Manga) Genres() []string {
	if m.Taxonomy == nil {
		return nil
	}
	names := make([]string, 0, len(m.Taxonomy.Genre))
	for _, g := range m.Taxonomy.Genre {
		names = append(names, g.Name)
	}
	return names
}

// FirstType returns the first Type tag name, or "" when there is none.
func (m *Manga) FirstType() string {
	if m.Taxonomy == nil || len(m.Taxonomy.Type) == 0 {
		return ""
	}
	return m.Taxonomy.Type[0].Name
}

// FirstFormat returns the first Format tag name, or "" when there is none.
func (m *Manga) FirstFormat() string {
	if m.Taxonomy == nil || len(m.Taxonomy.Format) == 0 {
		return ""
	}
	return m.Taxonomy.Format[0].Name
}

// Chapter represents a single readable chapter of a title.
type Chapter struct {
	ChapterID     string  `json:"chapter_id"`
	ChapterNumber float64 `json:"chapter_number"`
	Title         *string `json:"title,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// CreatedTime parses CreatedAt as an ISO-8601 timestamp.
func (c *Chapter) CreatedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, c.CreatedAt)
}

// MangaDetail is the composite of a title's metadata and its chapter list.
// Metadata is nil when the metadata fetch failed.
type MangaDetail struct {
	Metadata *Manga    `json:"metadata"`
	Chapters []Chapter `json:"chapters"`
}

// ChapterPages is the reader payload: the chapter echoed by the detail
// endpoint plus its page image URLs in reading order.
type ChapterPages struct {
	Info   *Chapter `json:"chapter_info,omitempty"`
	Images []string `json:"images"`
}
