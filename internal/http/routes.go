package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds the services and configuration the HTTP router needs.
type RouterServices struct {
	Callback *CallbackHandlers
	Sessions SessionServiceInterface

	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /auth/callback", http.HandlerFunc(services.Callback.Callback))

	if services.Sessions != nil {
		authHandlers := &AuthHandlers{
			Svc:          services.Sessions,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}
		mux.Handle("POST /auth/logout", http.HandlerFunc(authHandlers.Logout))
		mux.Handle("GET /auth/status", http.HandlerFunc(authHandlers.Status))
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
