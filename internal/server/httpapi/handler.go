package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/avetrov/securenote/internal/common"
	"github.com/avetrov/securenote/internal/logging"
	"github.com/avetrov/securenote/internal/server/services"
	"github.com/avetrov/securenote/internal/server/validation"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "secure_session"

type ctxKey int

const usernameKey ctxKey = 0

type Handler struct {
	logger logging.Logger
	auth   *services.AuthService
	data   *services.DataService
}

func NewHandler(logger logging.Logger, auth *services.AuthService, data *services.DataService) *Handler {
	return &Handler{logger: logger, auth: auth, data: data}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type dataRequest struct {
	Data string `json:"data"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.Confirm)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "user registered"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info(r.Context(), "login", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"message": "login successful"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) handleSaveData(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value(usernameKey).(string)

	var req dataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	data := validation.Sanitize(req.Data)
	if err := validation.Data(data); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.data.Save(r.Context(), username, data); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "data saved", "username", username)
	writeJSON(w, http.StatusOK, map[string]string{"message": "data saved"})
}

func (h *Handler) handleLoadData(w http.ResponseWriter, r *http.Request) {
	username := r.Context().Value(usernameKey).(string)

	data, ok, err := h.data.Load(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data saved"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"data": data})
}

// requireSession resolves the session token and stores the username in
// the request context. Missing, expired, and logged-out sessions are all
// rejected the same way.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			h.writeError(w, r, common.ErrNotAuthenticated)
			return
		}

		username, err := h.auth.Validate(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeError maps service errors to status codes. Expected outcomes keep
// their message; anything else is logged in full and surfaced as a
// generic failure with no internal detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, common.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username already exists"})
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
	case errors.Is(err, common.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
	case errors.Is(err, common.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many login attempts, try again later"})
	case errors.Is(err, common.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "data too large"})
	default:
		h.logger.Error(r.Context(), "internal error", "err", err.Error(), "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// sessionToken extracts the token from the session cookie, falling back
// to a bearer Authorization header for non-browser clients.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// clientIP returns the request's source IP without the port. RealIP
// middleware has already folded in X-Forwarded-For when trusted.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
