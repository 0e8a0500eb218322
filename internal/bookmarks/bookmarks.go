// Package bookmarks keeps a device-local list of bookmarked title ids.
//
// The list lives as one JSON array under a single key of a key-value
// store. Every mutation rewrites the whole array; two writers racing on the
// same device may lose an update (last writer wins).
package bookmarks

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/vrsandeep/nephra-go/internal/models"
)

// StorageKey is the key the bookmark list is stored under.
const StorageKey = "nephra_bookmarks"

// KV is the storage capability the bookmark list needs.
type KV interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// DetailFetcher resolves a title id to its detail.
type DetailFetcher interface {
	MangaDetail(ctx context.Context, id string) *models.MangaDetail
}

// Store is the bookmark list of one device.
type Store struct {
	kv KV
}

// New creates a bookmark Store backed by kv.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// List returns the bookmarked ids. A missing or malformed value reads as empty.
func (s *Store) List() ([]string, error) {
	raw, ok, err := s.kv.GetItem(StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("Warning: ignoring malformed bookmark list: %v", err)
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Contains reports whether id is bookmarked.
func (s *Store) Contains(id string) (bool, error) {
	ids, err := s.List()
	if err != nil {
		return false, err
	}
	return indexOf(ids, id) >= 0, nil
}

// Add bookmarks id. Adding an id that is already present is a no-op.
func (s *Store) Add(id string) error {
	ids, err := s.List()
	if err != nil {
		return err
	}
	if indexOf(ids, id) >= 0 {
		return nil
	}
	return s.save(append(ids, id))
}

// Remove drops every occurrence of id.
func (s *Store) Remove(id string) error {
	ids, err := s.List()
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return s.save(kept)
}

// Toggle adds id when absent and removes it otherwise. It reports whether
// id is bookmarked afterwards.
func (s *Store) Toggle(id string) (bool, error) {
	present, err := s.Contains(id)
	if err != nil {
		return false, err
	}
	if present {
		return false, s.Remove(id)
	}
	return true, s.Add(id)
}

func (s *Store) save(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.kv.SetItem(StorageKey, string(raw))
}

func indexOf(ids []string, id string) int {
	for i, existing := range ids {
		if existing == id {
			return i
		}
	}
	return -1
}

// Hydrate resolves ids to titles with one concurrent detail lookup per id.
// Ids whose metadata cannot be fetched are dropped; one failure never
// affects the others. The result keeps the order of ids.
func Hydrate(ctx context.Context, fetcher DetailFetcher, ids []string) []models.Manga {
	resolved := make([]*models.Manga, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			detail := fetcher.MangaDetail(ctx, id)
			if detail != nil && detail.Metadata != nil {
				resolved[i] = detail.Metadata
			}
		}()
	}
	wg.Wait()

	titles := make([]models.Manga, 0, len(ids))
	for _, m := range resolved {
		if m != nil {
			titles = append(titles, *m)
		}
	}
	return titles
}
