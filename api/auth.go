package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mediatracker/mediatracker-server/database/model"
)

const sessionCookieName = "session"

// POST /api/user/register
//
// registerHandler creates a new account and logs the user in.
func (a *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var request authRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apierror(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if request.Username == "" || request.Password == "" {
		apierror(w, "Username and password required", http.StatusBadRequest)
		return
	}

	user, err := a.repo.InsertUser(r.Context(), request.Username, request.Password)
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			apierror(w, "Username already taken", http.StatusConflict)
			return
		}
		apierror(w, "Could not register user", http.StatusInternalServerError)
		return
	}

	token, err := a.repo.CreateSession(r.Context(), user.ID)
	if err != nil {
		apierror(w, "Could not create session", http.StatusInternalServerError)
		return
	}
	a.setSessionCookie(w, token)

	serveJSON(authResponse{
		Message:  "Registration successful",
		Username: user.Username,
		Token:    token,
	}, w)
}

// POST /api/user/login
//
// loginHandler authenticates a user by username and password.
func (a *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var request authRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apierror(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user, err := a.repo.ValidateUser(r.Context(), request.Username, request.Password)
	if err != nil {
		// Unknown user and wrong password are indistinguishable to the caller.
		apierror(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := a.repo.CreateSession(r.Context(), user.ID)
	if err != nil {
		apierror(w, "Could not create session", http.StatusInternalServerError)
		return
	}
	a.setSessionCookie(w, token)

	serveJSON(authResponse{
		Message:  "Login successful",
		Username: user.Username,
		Token:    token,
	}, w)
}

// POST /api/user/logout
//
// logoutHandler revokes the presented session token.
func (a *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		_ = a.repo.DeleteSession(r.Context(), token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	serveJSON(messageResponse{Message: "Logged out"}, w)
}

// GET /api/user/me
//
// meHandler reports whether the caller holds a valid session.
func (a *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		serveJSON(meResponse{Authenticated: false}, w)
		return
	}

	session, err := a.repo.GetSession(r.Context(), token)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		serveJSON(meResponse{Authenticated: false}, w)
		return
	}

	user, err := a.repo.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		apierror(w, "Could not resolve session user", http.StatusInternalServerError)
		return
	}

	serveJSON(meResponse{
		Authenticated: true,
		Username:      user.Username,
	}, w)
}

// sessionToken extracts the session token from the session cookie or the
// X-Session-Token header.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.Header.Get("X-Session-Token")
}

func (a *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
