package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vrsandeep/nephra-go/internal/core"
)

const (
	signupSuccessMessage = "Pendaftaran berhasil. Periksa email Anda untuk konfirmasi (jika diperlukan)."
	signupFailedMessage  = "Gagal mendaftar"
	loginFailedMessage   = "Failed to sign in"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authForm is the data of the login and signup pages.
type authForm struct {
	Page
	Email string
	Error string
}

func errorMessage(err error, fallback string) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return fallback
	}
	return err.Error()
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", authForm{Page: s.newPage(w, r, "Masuk", "login")})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if err := s.provider(r).SignIn(r.Context(), email, password); err != nil {
		form := authForm{
			Page:  s.newPage(w, r, "Masuk", "login"),
			Email: email,
			Error: errorMessage(err, loginFailedMessage),
		}
		s.render(w, http.StatusUnauthorized, "login.html", form)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "signup.html", authForm{Page: s.newPage(w, r, "Daftar", "signup")})
}

func (s *Server) handleSignupSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if err := s.provider(r).SignUp(r.Context(), email, password); err != nil {
		form := authForm{
			Page:  s.newPage(w, r, "Daftar", "signup"),
			Email: email,
			Error: errorMessage(err, signupFailedMessage),
		}
		s.render(w, http.StatusBadRequest, "signup.html", form)
		return
	}
	setFlash(w, r, Flash{Kind: "info", Title: signupSuccessMessage})
	http.Redirect(w, r, "/signup", http.StatusSeeOther)
}

func (s *Server) handleLogoutSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.provider(r).SignOut(r.Context()); err != nil {
		setFlash(w, r, Flash{Kind: "error", Title: "Failed to sign out", Description: err.Error()})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.identity(r)
	RespondWithJSON(w, http.StatusOK, core.SessionUpdate(s.provider(r)))
}

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	p := s.provider(r)
	if err := p.SignIn(r.Context(), payload.Email, payload.Password); err != nil {
		RespondWithError(w, http.StatusUnauthorized, errorMessage(err, loginFailedMessage))
		return
	}
	RespondWithJSON(w, http.StatusOK, core.SessionUpdate(p))
}

func (s *Server) handleAPISignup(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	p := s.provider(r)
	if err := p.SignUp(r.Context(), payload.Email, payload.Password); err != nil {
		RespondWithError(w, http.StatusBadRequest, errorMessage(err, signupFailedMessage))
		return
	}
	RespondWithJSON(w, http.StatusOK, core.SessionUpdate(p))
}

func (s *Server) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	p := s.provider(r)
	if err := p.SignOut(r.Context()); err != nil {
		RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, core.SessionUpdate(p))
}

// handleSessionSocket streams the device's session state. The current state
// is sent first; every later identity change follows.
func (s *Server) handleSessionSocket(w http.ResponseWriter, r *http.Request) {
	s.identity(r)
	s.app.WsHub().ServeWs(w, r, getDeviceID(r), core.SessionUpdate(s.provider(r)))
}
