package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"random-slideshow/internal/logging"
	"random-slideshow/internal/metrics"

	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName is the cookie used for authenticated sessions
const SessionCookieName = "slideshow_session"

// sessionTTL is how long a login stays valid
const sessionTTL = 24 * time.Hour

// SessionStore holds the bcrypt password hash and the set of live session
// tokens. Sessions are in-memory only; a restart logs everyone out.
type SessionStore struct {
	mu       sync.Mutex
	hash     []byte
	sessions map[string]time.Time // token -> expiry
}

// NewSessionStore hashes the configured password and returns an empty store.
func NewSessionStore(password string) (*SessionStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &SessionStore{
		hash:     hash,
		sessions: make(map[string]time.Time),
	}, nil
}

// Authenticate checks a password attempt against the stored hash.
func (s *SessionStore) Authenticate(password string) bool {
	return bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
}

// Create mints a new session token.
func (s *SessionStore) Create() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = time.Now().Add(sessionTTL)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return token, nil
}

// Valid reports whether a token belongs to a live session. Expired tokens
// are pruned as a side effect.
func (s *SessionStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, token)
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
		return false
	}
	return true
}

// Destroy removes a session token.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Password string `json:"password"`
}

// AuthResponse is returned by auth endpoints
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	AuthRequired  bool   `json:"authRequired"`
	Message       string `json:"message,omitempty"`
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeJSON(w, http.StatusOK, AuthResponse{Authenticated: true, AuthRequired: false})
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.sessions.Authenticate(req.Password) {
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		logging.Warn("Failed login attempt from %s", r.RemoteAddr)
		writeJSONError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := h.sessions.Create()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, AuthResponse{Authenticated: true, AuthRequired: true})
}

// Logout handles POST /api/auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			h.sessions.Destroy(cookie.Value)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSONStatus(w, http.StatusOK, "logged out")
}

// AuthStatus handles GET /api/auth/status
func (h *Handlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeJSON(w, http.StatusOK, AuthResponse{Authenticated: true, AuthRequired: false})
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		Authenticated: h.authenticated(r),
		AuthRequired:  true,
	})
}

func (h *Handlers) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	return h.sessions.Valid(cookie.Value)
}

// requireAuth gates API routes behind a valid session when authentication
// is enabled. Auth endpoints themselves are exempt so clients can log in.
func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.sessions == nil || strings.HasPrefix(r.URL.Path, "/api/auth/") {
			next.ServeHTTP(w, r)
			return
		}
		if !h.authenticated(r) {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
