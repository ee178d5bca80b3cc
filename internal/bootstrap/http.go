package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/localspot/localspot-api/config"
	httpx "github.com/localspot/localspot-api/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services AuthServices
	Logger   *slog.Logger
}

// RunHTTPServer builds the router, starts the server, and blocks until the
// context is canceled or a shutdown signal arrives. Shutdown drains
// in-flight requests with a bounded grace period.
func RunHTTPServer(ctx context.Context, cfg HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Callback: &httpx.CallbackHandlers{
			Svc: cfg.Services.Callback,
			Confirm: httpx.ConfirmPageData{
				ProviderURL: cfg.Config.Auth.Provider.URL,
				PublicKey:   cfg.Config.Auth.Provider.PublicKey,
			},
			CookieDomain: cfg.Config.HTTP.CookieDomain,
			Logger:       logger,
		},
		Sessions:     cfg.Services.Sessions,
		CookieDomain: cfg.Config.HTTP.CookieDomain,
		Logger:       logger,
	})

	addr := cfg.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
