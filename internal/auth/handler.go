package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/transport"
	"github.com/frahmantamala/budget-approval/internal/user"
	"github.com/frahmantamala/budget-approval/pkg/logger"
)

const (
	sessionCookieName = "jwt"
	userIDCookieName  = "userId"
)

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	secureCookies bool
}

func NewHandler(svc ServiceAPI, secureCookies bool) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       svc,
		secureCookies: secureCookies,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Service.Register(dto); err != nil {
		h.Logger.Error("registration failed", "error", err, "email", dto.Email)

		if verr, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "User registered successfully!",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)

		if verr, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookies(w, session)

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful!",
		"role":    session.Role,
		"userId":  session.UserID,
	})
}

// Logout clears the session cookies. The jwt cookie is the credential,
// so expiring it server-side is all a stateless session needs.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, sessionCookieName, true)
	h.clearCookie(w, userIDCookieName, true)
	w.WriteHeader(http.StatusNoContent)
}

// setSessionCookies issues the jwt credential cookie plus a userId
// convenience cookie for the frontend. Only the jwt cookie is ever
// trusted server-side.
func (h *Handler) setSessionCookies(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     userIDCookieName,
		Value:    session.UserID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// extractSessionToken reads the jwt cookie and falls back to the
// Authorization header for non-browser clients.
func (h *Handler) extractSessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return h.ExtractTokenFromHeader(r)
}

// AuthMiddleware validates the session token and places the caller
// identity in the request context. Identity comes from verified claims
// only, never from request-supplied identifiers.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.extractSessionToken(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing session token", "path", r.URL.Path)
			h.HandleServiceError(w, internal.ErrMissingSession)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token validation failed", "error", err, "path", r.URL.Path)
			h.HandleServiceError(w, internal.ErrMissingSession)
			return
		}

		role, err := user.ParseRole(claims.Role)
		if err != nil {
			h.Logger.Error("auth middleware: token carries unknown role", "role", claims.Role)
			h.HandleServiceError(w, internal.ErrMissingSession)
			return
		}

		sessionUser := &SessionUser{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  role,
		}

		ctx := ContextWithUser(r.Context(), sessionUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
