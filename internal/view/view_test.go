package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrsandeep/nephra-go/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestRatingBadge(t *testing.T) {
	testCases := []struct {
		name    string
		rate    *float64
		want    string
		visible bool
	}{
		{"absent", nil, "", false},
		{"zero", ptr(0.0), "", false},
		{"negative", ptr(-1.0), "", false},
		{"rounded", ptr(8.75), "8.8", true},
		{"tie rounds up", ptr(8.25), "8.3", true},
		{"odd tie rounds up", ptr(7.25), "7.3", true},
		{"near tie", ptr(6.45), "6.5", true},
		{"below tie", ptr(6.44), "6.4", true},
		{"whole", ptr(7.0), "7.0", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, visible := RatingBadge(tc.rate)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.visible, visible)
		})
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Ongoing", StatusText(ptr(1)))
	assert.Equal(t, "Completed", StatusText(ptr(2)))
	assert.Equal(t, "Completed", StatusText(nil))
}

func TestNewCard(t *testing.T) {
	t.Run("full taxonomy", func(t *testing.T) {
		m := models.Manga{
			ID:       "m-1",
			Title:    "Solo Leveling",
			UserRate: ptr(9.12),
			Taxonomy: &models.Taxonomy{
				Genre:  []models.TaxonomyEntry{{Name: "Action"}, {Name: "Fantasy"}, {Name: "Drama"}, {Name: "Horror"}},
				Type:   []models.TaxonomyEntry{{Name: "Project"}, {Name: "Mirror"}},
				Format: []models.TaxonomyEntry{{Name: "Manhwa"}},
			},
		}
		card := NewCard(m)
		assert.Equal(t, "Project", card.Type)
		assert.Equal(t, "Manhwa", card.Format)
		assert.Equal(t, []string{"Action", "Fantasy", "Drama"}, card.Genres)
		assert.Equal(t, "9.1", card.Rating)
		assert.True(t, card.Rated)
	})

	t.Run("absent taxonomy", func(t *testing.T) {
		card := NewCard(models.Manga{ID: "m-2", Title: "Bare"})
		assert.Empty(t, card.Type)
		assert.Empty(t, card.Format)
		assert.Empty(t, card.Genres)
		assert.False(t, card.Rated)
	})

	t.Run("empty categories", func(t *testing.T) {
		card := NewCard(models.Manga{Taxonomy: &models.Taxonomy{}})
		assert.Empty(t, card.Type)
		assert.Empty(t, card.Genres)
	})
}

func TestNeighbors(t *testing.T) {
	chapters := []models.Chapter{{ChapterID: "c3"}, {ChapterID: "c2"}, {ChapterID: "c1"}}

	prev, next := Neighbors(chapters, "c2")
	assert.Equal(t, "c1", prev)
	assert.Equal(t, "c3", next)

	prev, next = Neighbors(chapters, "c3")
	assert.Equal(t, "c2", prev)
	assert.Empty(t, next)

	prev, next = Neighbors(chapters, "c1")
	assert.Empty(t, prev)
	assert.Equal(t, "c2", next)

	prev, next = Neighbors(chapters, "missing")
	assert.Empty(t, prev)
	assert.Empty(t, next)

	prev, next = Neighbors(nil, "c1")
	assert.Empty(t, prev)
	assert.Empty(t, next)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Plain", PlainText("  Plain "))
	assert.Equal(t, "Bold and italic", PlainText("<b>Bold</b> and <i>italic</i>"))
	assert.Equal(t, "one\ntwo", PlainText("one<br>two"))
	assert.Equal(t, "", PlainText(""))
}

func TestReleaseDate(t *testing.T) {
	released := func(at string) models.Chapter { return models.Chapter{ChapterID: "c1", CreatedAt: at} }
	assert.Equal(t, "5 Januari 2024", ReleaseDate(released("2024-01-05T10:00:00Z")))
	assert.Equal(t, "5 Januari 2024", ReleaseDate(released("2024-01-05T10:00:00.123456Z")))
	assert.Equal(t, "31 Desember 2023", ReleaseDate(released("2023-12-31T23:00:00+07:00")))
	assert.Equal(t, "yesterday", ReleaseDate(released("yesterday")))
	assert.Equal(t, "", ReleaseDate(models.Chapter{}))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "12,345,678", FormatCount(12345678))
	assert.Equal(t, "-1,234", FormatCount(-1234))
}

func TestChapterNumber(t *testing.T) {
	assert.Equal(t, "12", ChapterNumber(12))
	assert.Equal(t, "12.5", ChapterNumber(12.5))
}
