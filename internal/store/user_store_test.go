package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vrsandeep/nephra-go/internal/store"
	"github.com/vrsandeep/nephra-go/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	t.Run("Create User Success", func(t *testing.T) {
		user, err := s.CreateUser(" Reader@Example.com ", "hash")
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.Email != "reader@example.com" {
			t.Errorf("Expected normalized email 'reader@example.com', got '%s'", user.Email)
		}
	})

	t.Run("Create User with Duplicate Email", func(t *testing.T) {
		_, err := s.CreateUser("reader@example.com", "hash")
		if !errors.Is(err, store.ErrEmailTaken) {
			t.Fatalf("Expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("Get User By Email", func(t *testing.T) {
		user, err := s.GetUserByEmail("READER@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user.PasswordHash != "hash" {
			t.Errorf("Expected stored password hash, got '%s'", user.PasswordHash)
		}
	})

	t.Run("Get Non-existent User", func(t *testing.T) {
		_, err := s.GetUserByEmail("nobody@example.com")
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestUserStore_Sessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	user, err := s.CreateUser("session@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("Create and Resolve Session", func(t *testing.T) {
		token, err := s.CreateSession(user.ID)
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if len(token) != 64 {
			t.Errorf("Expected 64 hex chars, got %d", len(token))
		}
		got, err := s.GetUserFromSession(token)
		if err != nil {
			t.Fatalf("GetUserFromSession failed: %v", err)
		}
		if got.Email != "session@example.com" {
			t.Errorf("Expected session user 'session@example.com', got '%s'", got.Email)
		}

		if err := s.DeleteSession(token); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := s.GetUserFromSession(token); err == nil {
			t.Error("Expected error for deleted session")
		}
	})

	t.Run("Expired Sessions", func(t *testing.T) {
		_, err := db.Exec("INSERT INTO sessions (token, user_id, expiry) VALUES (?, ?, ?)",
			"stale", user.ID, time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("Failed to insert expired session: %v", err)
		}
		live, _ := s.CreateSession(user.ID)

		removed, err := s.DeleteExpiredSessions()
		if err != nil {
			t.Fatalf("DeleteExpiredSessions failed: %v", err)
		}
		if removed != 1 {
			t.Errorf("Expected 1 expired session removed, got %d", removed)
		}
		if _, err := s.GetUserFromSession(live); err != nil {
			t.Errorf("Live session should survive cleanup: %v", err)
		}
	})
}
