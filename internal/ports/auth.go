package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/domain/model"
)

// Sentinel errors shared across port implementations.
var (
	// ErrProfileNotFound is returned when no profile row exists for a user.
	// Immediately after signup this usually means the provider-side creation
	// trigger has not run yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
)

// ExchangeResult is the outcome of a successful code or OTP exchange:
// the authenticated user plus the provider token pair.
type ExchangeResult struct {
	User         domainauth.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// VerifyOTPInput groups parameters for a one-time-password verification.
type VerifyOTPInput struct {
	Token string
	Flow  domainauth.Flow
	Email string // optional, only some templates include it
}

// SessionExchanger turns an inbound authorization artifact into an
// authenticated identity via the external identity provider.
type SessionExchanger interface {
	// ExchangeCode trades a one-time authorization code for a session.
	ExchangeCode(ctx context.Context, code string) (ExchangeResult, error)

	// VerifyOTP trades a one-time token or token hash (from an email link)
	// for a session. An unspecified flow defaults to signup.
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (ExchangeResult, error)

	// GetUser returns the user behind a verified access token.
	GetUser(ctx context.Context, accessToken string) (domainauth.User, error)
}

// SessionStore persists and retrieves server-side sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// ProfileFields names the profile columns a role sync writes.
type ProfileFields struct {
	Role        domainauth.Role
	AccountRole domainauth.Role
}

// ProfileStore reads and writes application-owned profile rows.
type ProfileStore interface {
	// GetProfile returns the profile for a user, ErrProfileNotFound when the
	// row does not exist yet, or a recognizable schema-cache error when the
	// read hit a stale cached plan.
	GetProfile(ctx context.Context, userID string) (domainauth.Profile, error)

	// GetProfileReduced retries the lookup with the pre-migration column set.
	GetProfileReduced(ctx context.Context, userID string) (domainauth.Profile, error)

	// UpdateRoles writes both legacy role columns. Idempotent.
	UpdateRoles(ctx context.Context, userID string, fields ProfileFields) error
}

// OwnershipStore answers whether a user is already entangled with a business.
type OwnershipStore interface {
	ListOwnedBusinesses(ctx context.Context, userID string) ([]model.BusinessRef, error)
	ListApprovedOwnershipRequests(ctx context.Context, userID string) ([]model.OwnershipRequestRef, error)
}
