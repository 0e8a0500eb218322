package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/session"
)

// refreshMargin refreshes access tokens slightly before they expire.
const refreshMargin = 10 * time.Second

// APIError is a non-2xx response from the auth service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type goTrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type goTrueSession struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type,omitempty"`
	ExpiresIn    int        `json:"expires_in,omitempty"`
	ExpiresAt    int64      `json:"expires_at,omitempty"`
	RefreshToken string     `json:"refresh_token"`
	User         goTrueUser `json:"user"`
}

func (s *goTrueSession) identity() *models.Identity {
	return &models.Identity{ID: s.User.ID, Email: s.User.Email}
}

// GoTrue talks to a GoTrue-compatible auth service on behalf of one device.
// The session is persisted in the device's storage, so it survives provider
// eviction and restarts.
type GoTrue struct {
	emitter

	baseURL string
	anonKey string
	client  *http.Client
	kv      KV

	mu sync.Mutex
}

// NewGoTrue creates a GoTrue backend for the service at baseURL.
func NewGoTrue(baseURL, anonKey string, kv KV) *GoTrue {
	return &GoTrue{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		kv:      kv,
	}
}

// OnAuthStateChange registers fn for change notifications.
func (g *GoTrue) OnAuthStateChange(fn func(session.Event, *models.Identity)) session.Subscription {
	return g.subscribe(fn)
}

func (g *GoTrue) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", g.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if token == "" {
		token = g.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorMessage extracts the human-readable message of an error response.
func errorMessage(resp *http.Response) string {
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		for _, key := range []string{"error_description", "msg", "message", "error"} {
			if msg, ok := body[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("auth request failed with status %d", resp.StatusCode)
}

func (g *GoTrue) loadSession() (*goTrueSession, error) {
	raw, ok, err := g.kv.GetItem(SessionKey)
	if err != nil || !ok {
		return nil, err
	}
	var s goTrueSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s.AccessToken == "" {
		log.Printf("Discarding unreadable auth session: %v", err)
		return nil, g.kv.RemoveItem(SessionKey)
	}
	return &s, nil
}

func (g *GoTrue) saveSession(s *goTrueSession) error {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return g.kv.SetItem(SessionKey, string(raw))
}

// expiresAt reads the exp claim of the access token. The signature is not
// checked; the auth service does that on every call.
func expiresAt(s *goTrueSession) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	return time.Time{}
}

func (g *GoTrue) refresh(ctx context.Context, s *goTrueSession) (*goTrueSession, error) {
	var next goTrueSession
	body := map[string]string{"refresh_token": s.RefreshToken}
	if err := g.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, &next); err != nil {
		return nil, err
	}
	if err := g.saveSession(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// GetUser returns the identity of the stored session, refreshing an expired
// access token first. A session the service rejects is cleared.
func (g *GoTrue) GetUser(ctx context.Context) (*models.Identity, error) {
	g.mu.Lock()
	var events []session.Event
	identity, err := g.currentUser(ctx, &events)
	g.mu.Unlock()

	for _, event := range events {
		g.emit(event, identity)
	}
	return identity, err
}

func (g *GoTrue) currentUser(ctx context.Context, events *[]session.Event) (*models.Identity, error) {
	s, err := g.loadSession()
	if err != nil || s == nil {
		return nil, err
	}

	if exp := expiresAt(s); !exp.IsZero() && time.Now().Add(refreshMargin).After(exp) {
		next, err := g.refresh(ctx, s)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				*events = append(*events, session.EventSignedOut)
				return nil, g.kv.RemoveItem(SessionKey)
			}
			return nil, err
		}
		s = next
		*events = append(*events, session.EventTokenRefreshed)
	}

	var user goTrueUser
	if err := g.do(ctx, http.MethodGet, "/auth/v1/user", s.AccessToken, nil, &user); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			*events = append(*events, session.EventSignedOut)
			return nil, g.kv.RemoveItem(SessionKey)
		}
		return nil, err
	}

	if user.Email != s.User.Email {
		s.User = user
		if err := g.saveSession(s); err != nil {
			return nil, err
		}
		*events = append(*events, session.EventUserUpdated)
	}
	return s.identity(), nil
}

// SignInWithPassword exchanges credentials for a session.
func (g *GoTrue) SignInWithPassword(ctx context.Context, email, password string) error {
	g.mu.Lock()
	var s goTrueSession
	body := map[string]string{"email": email, "password": password}
	err := g.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &s)
	if err == nil {
		err = g.saveSession(&s)
	}
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.emit(session.EventSignedIn, s.identity())
	return nil
}

// SignUp registers an account. When the service confirms immediately it
// returns a session and the device is signed in; otherwise the account
// waits for email confirmation and nothing changes locally.
func (g *GoTrue) SignUp(ctx context.Context, email, password string) error {
	g.mu.Lock()
	var s goTrueSession
	body := map[string]string{"email": email, "password": password}
	err := g.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &s)
	if err == nil && s.AccessToken != "" {
		err = g.saveSession(&s)
	}
	g.mu.Unlock()
	if err != nil {
		return err
	}

	if s.AccessToken != "" {
		g.emit(session.EventSignedIn, s.identity())
	}
	return nil
}

// SignOut revokes the session upstream and forgets it locally. The local
// session is cleared even if the revoke call fails.
func (g *GoTrue) SignOut(ctx context.Context) error {
	g.mu.Lock()
	s, err := g.loadSession()
	if err == nil && s != nil {
		if err := g.do(ctx, http.MethodPost, "/auth/v1/logout", s.AccessToken, nil, nil); err != nil {
			log.Printf("Warning: failed to revoke auth session: %v", err)
		}
	}
	err = g.kv.RemoveItem(SessionKey)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.emit(session.EventSignedOut, nil)
	return nil
}
