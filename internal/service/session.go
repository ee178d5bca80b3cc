package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/ports"
)

// ErrSessionExpired is returned when a stored session outlived its tokens.
var ErrSessionExpired = errors.New("session expired")

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Sessions ports.SessionStore

	// Users enables resolving a user straight from a verified access token
	// when no server-side session exists. Optional.
	Users ports.SessionExchanger
}

// SessionService answers session questions for the status and logout
// endpoints. Session creation happens in the callback pipeline.
type SessionService struct {
	sessions ports.SessionStore
	users    ports.SessionExchanger
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	return &SessionService{sessions: opts.Sessions, users: opts.Users}
}

// GetSession retrieves a session by ID, cleaning up expired ones.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// GetUserFromToken resolves the user behind an access token, verifying it
// against the identity provider's published keys. Used when the token pair
// cookies outlive the server-side session.
func (s *SessionService) GetUserFromToken(ctx context.Context, accessToken string) (domainauth.User, error) {
	if accessToken == "" {
		return domainauth.User{}, errors.New("access token is required")
	}
	if s.users == nil {
		return domainauth.User{}, errors.New("no token verifier configured")
	}

	user, err := s.users.GetUser(ctx, accessToken)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("get user from token: %w", err)
	}
	return user, nil
}

// Logout removes a session.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
