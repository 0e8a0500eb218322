package store_test

import (
	"testing"

	"github.com/vrsandeep/nephra-go/internal/store"
	"github.com/vrsandeep/nephra-go/internal/testutil"
)

func TestPing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	if err := s.Ping(); err != nil {
		t.Fatalf("Ping on an open database failed: %v", err)
	}

	db.Close()
	if err := s.Ping(); err == nil {
		t.Error("Expected Ping to fail on a closed database")
	}
}
