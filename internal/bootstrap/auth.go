package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/localspot/localspot-api/config"
	"github.com/localspot/localspot-api/internal/adapters/identity"
	redisadapter "github.com/localspot/localspot-api/internal/adapters/redis"
	"github.com/localspot/localspot-api/internal/data"
	"github.com/localspot/localspot-api/internal/service"
)

// AuthDeps contains dependencies for building the auth services.
type AuthDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthServices bundles the constructed auth-facing services.
type AuthServices struct {
	Callback *service.CallbackService
	Sessions *service.SessionService
}

// BuildAuthServices wires the identity adapter, stores, and services.
func BuildAuthServices(deps AuthDeps) (AuthServices, error) {
	provider, err := identity.NewProvider(identity.ProviderConfig{
		BaseURL:              deps.Config.Auth.Provider.URL,
		APIKey:               deps.Config.Auth.Provider.PublicKey,
		AccountTypeClaimPath: deps.Config.Auth.Provider.AccountTypeClaimPath,
	})
	if err != nil {
		return AuthServices{}, fmt.Errorf("create identity provider: %w", err)
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, deps.Config.Auth.SessionPrefix)
	profileRepo := data.NewProfileRepo(deps.DB)
	ownershipRepo := data.NewOwnershipRepo(deps.DB)

	callback := service.NewCallbackService(service.CallbackServiceOptions{
		Deps: service.CallbackDeps{
			Exchanger: provider,
			Profiles:  profileRepo,
			Ownership: ownershipRepo,
			Sessions:  sessionStore,
		},
		Wait: service.ProfileWaitConfig{
			Attempts: deps.Config.Auth.ProfileWait.Attempts,
			Backoff:  deps.Config.Auth.ProfileWait.Backoff,
		},
		Logger: deps.Logger,
	})

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Sessions: sessionStore,
		Users:    provider,
	})

	return AuthServices{Callback: callback, Sessions: sessions}, nil
}
