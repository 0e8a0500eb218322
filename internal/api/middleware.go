package api

// This file contains the middleware that identifies the browser device and
// resolves its session provider.

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/session"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const deviceContextKey = contextKey("device")

// DeviceCookieName holds the id of the browser device. The device owns the
// bookmarks and the auth session, the way local storage does in a browser.
const DeviceCookieName = "nephra_device"

const deviceCookieMaxAge = 10 * 365 * 24 * time.Hour

// identityWait bounds how long a page render waits for a fresh provider.
const identityWait = 2 * time.Second

// DeviceMiddleware ensures every request carries a device id, issuing a new
// cookie when the browser has none or a malformed one.
func (s *Server) DeviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := ""
		if cookie, err := r.Cookie(DeviceCookieName); err == nil {
			if id, err := uuid.Parse(cookie.Value); err == nil {
				deviceID = id.String()
			}
		}
		if deviceID == "" {
			deviceID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     DeviceCookieName,
				Value:    deviceID,
				Expires:  time.Now().Add(deviceCookieMaxAge),
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil, // Set secure flag if using HTTPS
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), deviceContextKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireDeviceMiddleware rejects requests without a valid device cookie.
// Pages issue the cookie, so only browsers that loaded one get through.
func (s *Server) RequireDeviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(DeviceCookieName)
		if err != nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, err := uuid.Parse(cookie.Value)
		if err != nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), deviceContextKey, id.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentityMiddleware rejects requests from devices that are not signed in.
// It must be chained *after* the DeviceMiddleware.
func (s *Server) RequireIdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.identity(r) == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getDeviceID returns the device id stored by DeviceMiddleware.
func getDeviceID(r *http.Request) string {
	id, _ := r.Context().Value(deviceContextKey).(string)
	return id
}

// provider returns the session provider of the requesting device.
func (s *Server) provider(r *http.Request) *session.Provider {
	return s.app.Sessions().Get(getDeviceID(r))
}

// identity returns the signed-in identity of the requesting device, giving a
// freshly created provider a moment to resolve.
func (s *Server) identity(r *http.Request) *models.Identity {
	p := s.provider(r)
	ctx, cancel := context.WithTimeout(r.Context(), identityWait)
	defer cancel()
	p.Wait(ctx)
	return p.Identity()
}
