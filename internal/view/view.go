// Package view holds the presentation helpers shared by the HTML pages.
package view

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vrsandeep/nephra-go/internal/models"
)

// MaxCardGenres is the number of genre badges shown on a card.
const MaxCardGenres = 3

var monthsID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Card is the data rendered by a title card.
type Card struct {
	ID       string
	Title    string
	CoverURL string
	Type     string
	Format   string
	Rating   string
	Rated    bool
	Genres   []string
}

// NewCard builds the card of a title. Every optional field may be absent.
func NewCard(m models.Manga) Card {
	genres := m.Genres()
	if len(genres) > MaxCardGenres {
		genres = genres[:MaxCardGenres]
	}
	rating, rated := RatingBadge(m.UserRate)
	return Card{
		ID:       m.ID,
		Title:    m.Title,
		CoverURL: m.CoverImageURL,
		Type:     m.FirstType(),
		Format:   m.FirstFormat(),
		Rating:   rating,
		Rated:    rated,
		Genres:   genres,
	}
}

// NewCards builds a card per title, keeping order.
func NewCards(list []models.Manga) []Card {
	cards := make([]Card, 0, len(list))
	for _, m := range list {
		cards = append(cards, NewCard(m))
	}
	return cards
}

// RatingBadge formats a user rating with one decimal. The badge is hidden
// when the rating is absent or not positive.
func RatingBadge(rate *float64) (string, bool) {
	if rate == nil || *rate <= 0 {
		return "", false
	}
	r := *rate
	// FormatFloat rounds exact ties (x.25, x.75) to even; badges round them up.
	if q := r * 4; q == math.Trunc(q) && math.Mod(q, 2) == 1 {
		r = math.Round(r*10) / 10
	}
	return strconv.FormatFloat(r, 'f', 1, 64), true
}

// StatusText maps a status code to its label.
func StatusText(status *int) string {
	if status != nil && *status == models.StatusOngoing {
		return "Ongoing"
	}
	return "Completed"
}

// ChapterNumber prints a chapter number without trailing zeros.
func ChapterNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatCount groups the digits of n by thousands.
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// PlainText strips markup from an upstream description, keeping line breaks.
func PlainText(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return strings.TrimSpace(doc.Text())
}

// ReleaseDate formats the release timestamp of a chapter as a long
// Indonesian date, e.g. "5 Januari 2024". An unparseable timestamp is
// returned unchanged.
func ReleaseDate(c models.Chapter) string {
	t, err := c.CreatedTime()
	if err != nil {
		return c.CreatedAt
	}
	return strconv.Itoa(t.Day()) + " " + monthsID[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// Neighbors locates current in a chapter list ordered newest first. prev is
// the next-older chapter and next the next-newer one; either is empty at the
// ends of the list or when current is not listed.
func Neighbors(chapters []models.Chapter, current string) (prev, next string) {
	idx := -1
	for i, c := range chapters {
		if c.ChapterID == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", ""
	}
	if idx+1 < len(chapters) {
		prev = chapters[idx+1].ChapterID
	}
	if idx > 0 {
		next = chapters[idx-1].ChapterID
	}
	return prev, next
}
