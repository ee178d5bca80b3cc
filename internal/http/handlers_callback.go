package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/localspot/localspot-api/internal/service"
)

// CallbackServiceInterface defines the interface for the callback pipeline.
type CallbackServiceInterface interface {
	Complete(ctx context.Context, params service.CallbackParams) service.Outcome
}

// CallbackHandlers provides the HTTP handler for the auth callback endpoint.
type CallbackHandlers struct {
	Svc          CallbackServiceInterface
	Confirm      ConfirmPageData
	CookieDomain string
	Logger       *slog.Logger
}

// Callback handles the post-authentication callback endpoint.
// GET /auth/callback?code=...&token_hash=...&type=...&next=...
//
// The response is either the client-side confirmation document (when the
// tokens only exist in the URL fragment) or a redirect to the destination
// the decision engine picked. Every branch flows through the cookie jar
// before writing, so session cookies survive whichever branch fires.
func (h *CallbackHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := service.CallbackParams{
		Code:             q.Get("code"),
		Token:            q.Get("token"),
		TokenHash:        q.Get("token_hash"),
		Type:             q.Get("type"),
		Next:             q.Get("next"),
		Email:            q.Get("email"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}
	if params.Next == "" {
		params.Next = "/"
	}

	jar := NewCookieJar(r, h.CookieDomain)
	outcome := h.Svc.Complete(r.Context(), params)

	if outcome.Classification.Kind == service.KindHashFragment {
		confirm := h.Confirm
		confirm.Flow = string(outcome.Classification.Flow)
		writeConfirmPage(w, jar, confirm)
		return
	}

	if outcome.Session != nil {
		jar.SetSession(*outcome.Session)
	}

	jar.Apply(w)
	http.Redirect(w, r, outcome.Decision.URL(), http.StatusFound)
}
