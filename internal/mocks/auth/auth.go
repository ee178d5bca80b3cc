package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/domain/model"
	"github.com/localspot/localspot-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionExchanger = (*MockExchanger)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.ProfileStore     = (*MockProfileStore)(nil)
	_ ports.OwnershipStore   = (*MockOwnershipStore)(nil)
)

// MockExchanger simulates the identity provider for tests. Each method may be
// overridden with a function field; unset methods return deterministic
// defaults built from DefaultUser.
type MockExchanger struct {
	ExchangeCodeFunc func(ctx context.Context, code string) (ports.ExchangeResult, error)
	VerifyOTPFunc    func(ctx context.Context, in ports.VerifyOTPInput) (ports.ExchangeResult, error)
	GetUserFunc      func(ctx context.Context, accessToken string) (domainauth.User, error)

	// Deterministic values for predictable testing
	DefaultUser   domainauth.User
	AccessToken   string
	RefreshToken  string
	TokenLifetime time.Duration

	// Call counters for asserting interaction counts.
	ExchangeCodeCalls int
	VerifyOTPCalls    int
	GetUserCalls      int
}

// NewMockExchanger creates a MockExchanger with sensible defaults: a
// confirmed user with no registration-time account type.
func NewMockExchanger() *MockExchanger {
	confirmed := time.Now().Add(-time.Minute)
	return &MockExchanger{
		DefaultUser: domainauth.User{
			ID:               "mock-user-1",
			Email:            "mock.user@example.com",
			EmailConfirmedAt: &confirmed,
		},
		AccessToken:   "mock-access-token",
		RefreshToken:  "mock-refresh-token",
		TokenLifetime: time.Hour,
	}
}

func (m *MockExchanger) defaultResult() ports.ExchangeResult {
	return ports.ExchangeResult{
		User:         m.DefaultUser,
		AccessToken:  m.AccessToken,
		RefreshToken: m.RefreshToken,
		ExpiresAt:    time.Now().Add(m.TokenLifetime),
	}
}

func (m *MockExchanger) ExchangeCode(ctx context.Context, code string) (ports.ExchangeResult, error) {
	m.ExchangeCodeCalls++
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return m.defaultResult(), nil
}

func (m *MockExchanger) VerifyOTP(ctx context.Context, in ports.VerifyOTPInput) (ports.ExchangeResult, error) {
	m.VerifyOTPCalls++
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, in)
	}
	return m.defaultResult(), nil
}

func (m *MockExchanger) GetUser(ctx context.Context, accessToken string) (domainauth.User, error) {
	m.GetUserCalls++
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, accessToken)
	}
	return m.DefaultUser, nil
}

// MemorySessionStore is an in-memory ports.SessionStore safe for concurrent use.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	// SaveErr, when set, is returned from Save to simulate store outages.
	SaveErr error
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// MockProfileStore is a function-field double for ports.ProfileStore.
// Unset methods behave as if the profile table were empty.
type MockProfileStore struct {
	GetProfileFunc        func(ctx context.Context, userID string) (domainauth.Profile, error)
	GetProfileReducedFunc func(ctx context.Context, userID string) (domainauth.Profile, error)
	UpdateRolesFunc       func(ctx context.Context, userID string, fields ports.ProfileFields) error

	GetProfileCalls        int
	GetProfileReducedCalls int
	UpdateRolesCalls       int

	// LastUpdate records the most recent UpdateRoles arguments.
	LastUpdate ports.ProfileFields
}

func (m *MockProfileStore) GetProfile(ctx context.Context, userID string) (domainauth.Profile, error) {
	m.GetProfileCalls++
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return domainauth.Profile{}, ports.ErrProfileNotFound
}

func (m *MockProfileStore) GetProfileReduced(ctx context.Context, userID string) (domainauth.Profile, error) {
	m.GetProfileReducedCalls++
	if m.GetProfileReducedFunc != nil {
		return m.GetProfileReducedFunc(ctx, userID)
	}
	return domainauth.Profile{}, ports.ErrProfileNotFound
}

func (m *MockProfileStore) UpdateRoles(ctx context.Context, userID string, fields ports.ProfileFields) error {
	m.UpdateRolesCalls++
	m.LastUpdate = fields
	if m.UpdateRolesFunc != nil {
		return m.UpdateRolesFunc(ctx, userID, fields)
	}
	return nil
}

// MockOwnershipStore is a function-field double for ports.OwnershipStore.
// Unset methods report no business tie-in.
type MockOwnershipStore struct {
	ListOwnedBusinessesFunc           func(ctx context.Context, userID string) ([]model.BusinessRef, error)
	ListApprovedOwnershipRequestsFunc func(ctx context.Context, userID string) ([]model.OwnershipRequestRef, error)

	ListOwnedCalls    int
	ListApprovedCalls int
}

func (m *MockOwnershipStore) ListOwnedBusinesses(ctx context.Context, userID string) ([]model.BusinessRef, error) {
	m.ListOwnedCalls++
	if m.ListOwnedBusinessesFunc != nil {
		return m.ListOwnedBusinessesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockOwnershipStore) ListApprovedOwnershipRequests(ctx context.Context, userID string) ([]model.OwnershipRequestRef, error) {
	m.ListApprovedCalls++
	if m.ListApprovedOwnershipRequestsFunc != nil {
		return m.ListApprovedOwnershipRequestsFunc(ctx, userID)
	}
	return nil, nil
}
