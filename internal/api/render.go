package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"

	"github.com/vrsandeep/nephra-go/internal/assets"
	"github.com/vrsandeep/nephra-go/internal/core"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/view"
)

const flashCookieName = "nephra_flash"

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Kind        string `json:"kind"` // "info" or "error"
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Page is the data every page template receives.
type Page struct {
	Title   string
	Nav     string
	Query   string
	Session models.SessionUpdate
	Flash   *Flash
}

// parseTemplates builds one template set per page, each sharing the layout
// and partials.
func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"chapterNumber": view.ChapterNumber,
		"releaseDate":   view.ReleaseDate,
		"formatCount":   view.FormatCount,
		"proxy":         ProxyURL,
		"deref":         deref,
		"add":           func(a, b int) int { return a + b },
	}
	base, err := template.New("").Funcs(funcs).ParseFS(assets.WebFS,
		"web/templates/layout.html", "web/templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(assets.WebFS, "web/templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(assets.WebFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[path.Base(file)] = t
	}
	return pages, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// newPage builds the shared page data and consumes the pending flash.
func (s *Server) newPage(w http.ResponseWriter, r *http.Request, title, nav string) Page {
	s.identity(r)
	return Page{
		Title:   title,
		Nav:     nav,
		Session: core.SessionUpdate(s.provider(r)),
		Flash:   popFlash(w, r),
	}
}

// render executes a page template. Output is buffered so a template error
// still produces a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.templates[page]
	if !ok {
		log.Printf("Template error: unknown page %s", page)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func setFlash(w http.ResponseWriter, r *http.Request, f Flash) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
