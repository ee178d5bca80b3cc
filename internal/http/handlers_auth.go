package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/service"
)

// SessionServiceInterface defines the interface for session operations.
type SessionServiceInterface interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	GetUserFromToken(ctx context.Context, accessToken string) (domainauth.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for session status and logout.
type AuthHandlers struct {
	Svc          SessionServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Invalidate the server-side session if present
	if sessionCookie, err := r.Cookie(CookieSessionID); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	jar := NewCookieJar(r, h.CookieDomain)
	jar.ClearSession()

	next := r.FormValue("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}
	next = service.SafeNextPath(next)

	// AJAX requests get a JSON payload; regular requests redirect
	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		jar.Apply(w)
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": next,
		})
		return
	}

	jar.Apply(w)
	http.Redirect(w, r, next, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	hadCookie := false

	if sessionCookie, err := r.Cookie(CookieSessionID); err == nil {
		hadCookie = true
		if session, getErr := h.Svc.GetSession(r.Context(), sessionCookie.Value); getErr == nil {
			WriteJSON(w, http.StatusOK, map[string]any{
				"authenticated": true,
				"user": map[string]any{
					"id":    session.UserID,
					"email": session.Email,
					"role":  session.Role,
				},
				"expires_at": session.ExpiresAt,
			})
			return
		}
		// Server-side session gone or expired; the token pair cookies may
		// still carry a verifiable access token.
	}

	if tokenCookie, err := r.Cookie(CookieAccessToken); err == nil {
		hadCookie = true
		if user, getErr := h.Svc.GetUserFromToken(r.Context(), tokenCookie.Value); getErr == nil {
			WriteJSON(w, http.StatusOK, map[string]any{
				"authenticated": true,
				"user": map[string]any{
					"id":    user.ID,
					"email": user.Email,
					"role":  user.AccountType,
				},
			})
			return
		}
	}

	if hadCookie {
		// Whatever was presented is invalid; clear the cookies
		jar := NewCookieJar(r, h.CookieDomain)
		jar.ClearSession()
		jar.Apply(w)
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": false,
	})
}
