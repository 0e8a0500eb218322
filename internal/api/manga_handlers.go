package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/nephra-go/internal/bookmarks"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/view"
)

// bookmarksFor returns the bookmark list of the requesting device.
func (s *Server) bookmarksFor(r *http.Request) *bookmarks.Store {
	return bookmarks.New(s.store.DeviceStorage(getDeviceID(r)))
}

// mangaView is the detail page's rendering of a title.
type mangaView struct {
	view.Card
	AlternativeTitle    string
	Description         string
	Status              string
	ReleaseYear         string
	Views               string
	Bookmarks           string
	LatestChapterNumber string
	Rank                int
}

func newMangaView(m *models.Manga) mangaView {
	v := mangaView{
		Card:   view.NewCard(*m),
		Status: view.StatusText(m.Status),
	}
	// The detail page lists every genre, not just the card's first three.
	v.Genres = m.Genres()
	if m.AlternativeTitle != nil {
		v.AlternativeTitle = *m.AlternativeTitle
	}
	if m.Description != nil {
		v.Description = view.PlainText(*m.Description)
	}
	if m.ReleaseYear != nil {
		v.ReleaseYear = string(*m.ReleaseYear)
	}
	if m.ViewCount != nil && *m.ViewCount > 0 {
		v.Views = view.FormatCount(*m.ViewCount)
	}
	if m.BookmarkCount != nil && *m.BookmarkCount > 0 {
		v.Bookmarks = view.FormatCount(*m.BookmarkCount)
	}
	if m.LatestChapterNumber != nil && *m.LatestChapterNumber > 0 {
		v.LatestChapterNumber = view.ChapterNumber(*m.LatestChapterNumber)
	}
	if m.Rank != nil {
		v.Rank = *m.Rank
	}
	return v
}

func (s *Server) handleMangaPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail := s.catalog.MangaDetail(r.Context(), id)
	if detail.Metadata == nil {
		s.renderNotFound(w, r, "Manga not found")
		return
	}

	bookmarked, err := s.bookmarksFor(r).Contains(id)
	if err != nil {
		log.Printf("Error reading bookmarks: %v", err)
	}

	data := struct {
		Page
		Manga      mangaView
		Chapters   []models.Chapter
		Bookmarked bool
	}{
		Page:       s.newPage(w, r, detail.Metadata.Title, ""),
		Manga:      newMangaView(detail.Metadata),
		Chapters:   detail.Chapters,
		Bookmarked: bookmarked,
	}
	s.render(w, http.StatusOK, "manga.html", data)
}

// handleToggleBookmark flips the bookmark of a title and redirects back to
// its detail page with a toast.
func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bookmarked, err := s.bookmarksFor(r).Toggle(id)
	switch {
	case err != nil:
		log.Printf("Error toggling bookmark: %v", err)
		setFlash(w, r, Flash{Kind: "error", Title: "Failed to update bookmarks", Description: err.Error()})
	case bookmarked:
		setFlash(w, r, Flash{Kind: "info", Title: "Added to bookmarks"})
	default:
		setFlash(w, r, Flash{Kind: "info", Title: "Removed from bookmarks"})
	}
	http.Redirect(w, r, "/manga/"+id, http.StatusSeeOther)
}

// handleReaderPage loads the chapter images and the chapter list
// concurrently and records the view.
func (s *Server) handleReaderPage(w http.ResponseWriter, r *http.Request) {
	mangaID := chi.URLParam(r, "mangaId")
	chapterID := chi.URLParam(r, "chapterId")

	var (
		wg       sync.WaitGroup
		pages    *models.ChapterPages
		pagesErr error
		chapters []models.Chapter
		listErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pages, pagesErr = s.catalog.ChapterImages(r.Context(), chapterID)
	}()
	go func() {
		defer wg.Done()
		chapters, listErr = s.catalog.ChapterList(r.Context(), mangaID, 1, 0)
	}()
	s.catalog.AddView(r.Context(), mangaID, chapterID)
	wg.Wait()

	if listErr != nil {
		log.Printf("Error loading chapter list: %v", listErr)
	}
	prev, next := view.Neighbors(chapters, chapterID)

	page := s.newPage(w, r, "Reader", "")
	data := struct {
		Page
		MangaID string
		Chapter *models.Chapter
		Images  []string
		Prev    string
		Next    string
	}{
		MangaID: mangaID,
		Prev:    prev,
		Next:    next,
	}
	if pagesErr != nil {
		log.Printf("Error loading chapter %s: %v", chapterID, pagesErr)
		page.Flash = &Flash{Kind: "error", Title: "Error loading chapter", Description: pagesErr.Error()}
	} else {
		data.Chapter = pages.Info
		data.Images = pages.Images
		if pages.Info != nil {
			page.Title = "Chapter " + view.ChapterNumber(pages.Info.ChapterNumber)
		}
	}
	data.Page = page
	s.render(w, http.StatusOK, "reader.html", data)
}

func (s *Server) handleBookmarksPage(w http.ResponseWriter, r *http.Request) {
	ids, err := s.bookmarksFor(r).List()
	if err != nil {
		log.Printf("Error reading bookmarks: %v", err)
	}
	titles := bookmarks.Hydrate(r.Context(), s.catalog, ids)

	data := struct {
		Page
		Bookmarks []view.Card
	}{
		Page:      s.newPage(w, r, "My Bookmarks", "bookmarks"),
		Bookmarks: view.NewCards(titles),
	}
	s.render(w, http.StatusOK, "bookmarks.html", data)
}
