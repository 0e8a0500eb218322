package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/nephra-go/internal/api"
	"github.com/vrsandeep/nephra-go/internal/testutil"
)

func TestHandleGetVersion(t *testing.T) {
	t.Run("Plain Version", func(t *testing.T) {
		server, _ := testutil.SetupTestServer(t)
		rr := serve(server.Router(), httptest.NewRequest(http.MethodGet, "/api/version", nil))

		if status := rr.Code; status != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "test", body["version"])
	})

	t.Run("Semantic Version", func(t *testing.T) {
		app := testutil.SetupTestApp(t, nil)
		app.Version = "1.4.2-beta.1"
		server := api.NewServer(app)

		rr := serve(server.Router(), httptest.NewRequest(http.MethodGet, "/api/version", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Version    string `json:"version"`
			Major      uint64 `json:"major"`
			Minor      uint64 `json:"minor"`
			Patch      uint64 `json:"patch"`
			Prerelease bool   `json:"prerelease"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "1.4.2-beta.1", body.Version)
		assert.Equal(t, uint64(1), body.Major)
		assert.Equal(t, uint64(4), body.Minor)
		assert.Equal(t, uint64(2), body.Patch)
		assert.True(t, body.Prerelease)
	})
}

func TestHandleHealth(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	rr := serve(server.Router(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestNotFound(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Unknown Page", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rr.Body.String(), "Page not found")
		assert.Contains(t, rr.Body.String(), "/no/such/page")
	})

	t.Run("Unknown API Route", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/no-such-route", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
	})
}

func TestStaticAssets(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	rr := serve(server.Router(), httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/css")
}

func TestDeviceMiddleware(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Issues Cookie To New Device", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		var device *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == api.DeviceCookieName {
				device = c
			}
		}
		require.NotNil(t, device, "device cookie not set")
		assert.True(t, device.HttpOnly)
		assert.Len(t, device.Value, 36)
	})

	t.Run("Keeps Existing Device", func(t *testing.T) {
		cookie := testutil.DeviceCookie(t, server)
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/session", nil), cookie)

		for _, c := range rr.Result().Cookies() {
			assert.NotEqual(t, api.DeviceCookieName, c.Name, "device cookie reissued")
		}
	})

	t.Run("Replaces Malformed Device", func(t *testing.T) {
		bad := &http.Cookie{Name: api.DeviceCookieName, Value: "not-a-uuid"}
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/session", nil), bad)

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == api.DeviceCookieName {
				found = true
				assert.False(t, strings.Contains(c.Value, "not-a-uuid"))
			}
		}
		assert.True(t, found, "malformed device cookie not replaced")
	})
}
