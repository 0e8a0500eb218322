package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vrsandeep/nephra-go/internal/api"
	"github.com/vrsandeep/nephra-go/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	// Keep hashing cheap in tests.
	auth.PasswordCost = bcrypt.MinCost
}

// DeviceCookie returns a fresh device cookie, as the server would assign to
// a first-time visitor.
func DeviceCookie(t *testing.T, s *api.Server) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == api.DeviceCookieName {
			return cookie
		}
	}
	t.Fatal("Server did not assign a device cookie")
	return nil
}

// SignedInDevice registers email on a new device through the local backend
// and returns that device's cookie. The account is deleted on cleanup.
func SignedInDevice(t *testing.T, s *api.Server, email, password string) *http.Cookie {
	t.Helper()
	cookie := DeviceCookie(t, s)

	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/session/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Signup failed within test helper for '%s': got status %d, body %s", email, rr.Code, rr.Body.String())
	}

	t.Cleanup(func() {
		if user, err := s.Store().GetUserByEmail(email); err == nil {
			s.Store().DeleteUser(user.ID)
		}
	})
	return cookie
}
