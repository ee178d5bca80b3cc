package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/domain/model"
	"github.com/localspot/localspot-api/internal/mocks"
	authmocks "github.com/localspot/localspot-api/internal/mocks/auth"
	"github.com/localspot/localspot-api/internal/ports"
)

// Helper to build a CallbackService with hand-written doubles and an
// instant sleep.
func newTestCallbackService(t *testing.T, deps CallbackDeps) *CallbackService {
	t.Helper()
	if deps.Exchanger == nil {
		deps.Exchanger = authmocks.NewMockExchanger()
	}
	if deps.Profiles == nil {
		deps.Profiles = &authmocks.MockProfileStore{}
	}
	if deps.Ownership == nil {
		deps.Ownership = &authmocks.MockOwnershipStore{}
	}
	svc := NewCallbackService(CallbackServiceOptions{
		Deps: deps,
		Wait: ProfileWaitConfig{Attempts: 3, Backoff: time.Millisecond},
	})
	svc.sleepFn = func(time.Duration) {}
	return svc
}

func existingProfile(role domainauth.Role, complete bool) domainauth.Profile {
	return domainauth.Profile{
		UserID:             "mock-user-1",
		Role:               role,
		OnboardingComplete: complete,
	}
}

func TestNewCallbackService_RequiredDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewCallbackService(CallbackServiceOptions{})
	})
	assert.Panics(t, func() {
		NewCallbackService(CallbackServiceOptions{
			Deps: CallbackDeps{Exchanger: authmocks.NewMockExchanger()},
		})
	})
}

func TestComplete_ProviderError_NoExchangeAttempted(t *testing.T) {
	exchanger := authmocks.NewMockExchanger()
	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger})

	out := svc.Complete(context.Background(), CallbackParams{
		Code:  "abc",
		Error: "access_denied",
	})

	assert.Equal(t, KindError, out.Classification.Kind)
	assert.Equal(t, PathAuthCodeError, out.Decision.Path)
	assert.NotEmpty(t, out.Decision.Query.Get("error"))
	assert.Nil(t, out.Session)
	assert.Zero(t, exchanger.ExchangeCodeCalls, "provider errors are terminal; no exchange may run")
	assert.Zero(t, exchanger.VerifyOTPCalls)
}

func TestComplete_HashFragment_NoDecision(t *testing.T) {
	exchanger := authmocks.NewMockExchanger()
	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger})

	out := svc.Complete(context.Background(), CallbackParams{Type: "recovery"})

	assert.Equal(t, KindHashFragment, out.Classification.Kind)
	assert.Equal(t, domainauth.FlowRecovery, out.Classification.Flow)
	assert.Empty(t, out.Decision.Path)
	assert.Nil(t, out.Session)
	assert.Zero(t, exchanger.ExchangeCodeCalls)
}

func TestComplete_ExchangeFailure(t *testing.T) {
	exchanger := authmocks.NewMockExchanger()
	exchanger.ExchangeCodeFunc = func(context.Context, string) (ports.ExchangeResult, error) {
		return ports.ExchangeResult{}, errors.New("invalid grant")
	}
	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger})

	out := svc.Complete(context.Background(), CallbackParams{Code: "bad"})

	assert.Equal(t, PathAuthCodeError, out.Decision.Path)
	assert.Nil(t, out.Session)
}

func TestComplete_CodeUsesExchange_TokenUsesVerify(t *testing.T) {
	exchanger := authmocks.NewMockExchanger()
	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger})

	svc.Complete(context.Background(), CallbackParams{Code: "abc"})
	assert.Equal(t, 1, exchanger.ExchangeCodeCalls)
	assert.Zero(t, exchanger.VerifyOTPCalls)

	svc.Complete(context.Background(), CallbackParams{TokenHash: "h1", Type: "signup"})
	assert.Equal(t, 1, exchanger.VerifyOTPCalls)
}

func TestComplete_VerifyOTPReceivesFlowAndEmail(t *testing.T) {
	exchanger := authmocks.NewMockExchanger()
	var got ports.VerifyOTPInput
	exchanger.VerifyOTPFunc = func(_ context.Context, in ports.VerifyOTPInput) (ports.ExchangeResult, error) {
		got = in
		return ports.ExchangeResult{}, errors.New("stop here")
	}
	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger})

	svc.Complete(context.Background(), CallbackParams{
		Token: "t1",
		Type:  "recovery",
		Email: "a@b.c",
	})

	assert.Equal(t, "t1", got.Token)
	assert.Equal(t, domainauth.FlowRecovery, got.Flow)
	assert.Equal(t, "a@b.c", got.Email)
}

func TestComplete_NewOAuthUserWithApprovedRequest_GetsAccountTypeGate(t *testing.T) {
	ownership := &authmocks.MockOwnershipStore{
		ListApprovedOwnershipRequestsFunc: func(context.Context, string) ([]model.OwnershipRequestRef, error) {
			return []model.OwnershipRequestRef{{ID: "req-1", Status: model.OwnershipRequestApproved}}, nil
		},
	}
	svc := newTestCallbackService(t, CallbackDeps{Ownership: ownership})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc", Type: "oauth"})

	assert.Equal(t, PathSelectAccountType, out.Decision.Path)
	assert.Equal(t, "true", out.Decision.Query.Get("oauth"))
	assert.Equal(t, "true", out.Decision.Query.Get("business_tied"))
}

func TestComplete_OwnedBusinessShortCircuitsRequestLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownership := mocks.NewMockOwnershipStore(ctrl)
	ownership.EXPECT().ListOwnedBusinesses(gomock.Any(), "mock-user-1").
		Return([]model.BusinessRef{{ID: "biz-1", Status: model.BusinessActive}}, nil)
	// An owned business already proves the tie-in; the request lookup
	// must not run.

	svc := newTestCallbackService(t, CallbackDeps{Ownership: ownership})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc", Type: "oauth"})

	assert.Equal(t, PathSelectAccountType, out.Decision.Path)
	assert.Equal(t, "true", out.Decision.Query.Get("business_tied"))
}

func TestComplete_NewOAuthUserNoTieIn_GetsInterests(t *testing.T) {
	svc := newTestCallbackService(t, CallbackDeps{})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc"})

	assert.Equal(t, PathInterests, out.Decision.Path)
	assert.Equal(t, "1", out.Decision.Query.Get("verified"))
}

func TestComplete_TieInNotCheckedForExistingUsers(t *testing.T) {
	profiles := &authmocks.MockProfileStore{
		GetProfileFunc: func(context.Context, string) (domainauth.Profile, error) {
			return existingProfile(domainauth.RoleUser, true), nil
		},
	}
	ownership := &authmocks.MockOwnershipStore{}
	svc := newTestCallbackService(t, CallbackDeps{Profiles: profiles, Ownership: ownership})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc", Type: "oauth"})

	assert.Equal(t, PathComplete, out.Decision.Path)
	assert.Zero(t, ownership.ListOwnedCalls, "tie-in is a new-user check only")
	assert.Zero(t, ownership.ListApprovedCalls)
}

func TestComplete_TieInNotCheckedForEmailFlows(t *testing.T) {
	ownership := &authmocks.MockOwnershipStore{}
	svc := newTestCallbackService(t, CallbackDeps{Ownership: ownership})

	svc.Complete(context.Background(), CallbackParams{TokenHash: "h1", Type: "signup"})

	assert.Zero(t, ownership.ListOwnedCalls)
	assert.Zero(t, ownership.ListApprovedCalls)
}

func TestComplete_TieInLookupFailureRoutesToGate(t *testing.T) {
	ownership := &authmocks.MockOwnershipStore{
		ListOwnedBusinessesFunc: func(context.Context, string) ([]model.BusinessRef, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newTestCallbackService(t, CallbackDeps{Ownership: ownership})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc"})

	assert.Equal(t, PathSelectAccountType, out.Decision.Path,
		"lookup failures take the neutral gate, never consumer onboarding")
}

func TestComplete_ExistingBusinessOwnerOAuth_GetsConfirmationGate(t *testing.T) {
	profiles := &authmocks.MockProfileStore{
		GetProfileFunc: func(context.Context, string) (domainauth.Profile, error) {
			return existingProfile(domainauth.RoleBusinessOwner, true), nil
		},
	}
	svc := newTestCallbackService(t, CallbackDeps{Profiles: profiles})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc", Type: "oauth"})

	assert.Equal(t, PathSelectAccountType, out.Decision.Path)
	assert.Equal(t, "oauth", out.Decision.Query.Get("mode"))
	assert.Equal(t, "business_owner", out.Decision.Query.Get("existingRole"))
}

func TestComplete_MetadataAccountTypeWinsOverProfileRole(t *testing.T) {
	exchanger := authmocks.NewMockExchanger()
	exchanger.DefaultUser.AccountType = domainauth.RoleBusinessOwner
	profiles := &authmocks.MockProfileStore{
		GetProfileFunc: func(context.Context, string) (domainauth.Profile, error) {
			return existingProfile(domainauth.RoleUser, false), nil
		},
	}
	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger, Profiles: profiles})

	out := svc.Complete(context.Background(), CallbackParams{TokenHash: "h1", Type: "signup"})

	assert.Equal(t, PathMyBusinesses, out.Decision.Path)
	require.NotNil(t, out.Session)
	assert.Equal(t, domainauth.RoleBusinessOwner, out.Session.Role)
}

func TestComplete_RoleSync(t *testing.T) {
	tests := []struct {
		name        string
		metadata    domainauth.Role
		stored      domainauth.Role
		wantUpdates int
	}{
		{
			name:        "divergence triggers one write to both columns",
			metadata:    domainauth.RoleBusinessOwner,
			stored:      domainauth.RoleUser,
			wantUpdates: 1,
		},
		{
			name:        "agreement is a no-op",
			metadata:    domainauth.RoleUser,
			stored:      domainauth.RoleUser,
			wantUpdates: 0,
		},
		{
			name:        "unset metadata never syncs",
			metadata:    domainauth.RoleUnresolved,
			stored:      domainauth.RoleUser,
			wantUpdates: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exchanger := authmocks.NewMockExchanger()
			exchanger.DefaultUser.AccountType = tt.metadata
			profiles := &authmocks.MockProfileStore{
				GetProfileFunc: func(context.Context, string) (domainauth.Profile, error) {
					return existingProfile(tt.stored, false), nil
				},
			}
			svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger, Profiles: profiles})

			svc.Complete(context.Background(), CallbackParams{Code: "abc"})

			assert.Equal(t, tt.wantUpdates, profiles.UpdateRolesCalls)
			if tt.wantUpdates > 0 {
				assert.Equal(t, tt.metadata, profiles.LastUpdate.Role)
				assert.Equal(t, tt.metadata, profiles.LastUpdate.AccountRole)
			}
		})
	}
}

func TestComplete_SyncFailureDoesNotBlockRedirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchanger := authmocks.NewMockExchanger()
	exchanger.DefaultUser.AccountType = domainauth.RoleUser

	profiles := mocks.NewMockProfileStore(ctrl)
	profiles.EXPECT().GetProfile(gomock.Any(), gomock.Any()).
		Return(existingProfile(domainauth.RoleBusinessOwner, false), nil)
	profiles.EXPECT().UpdateRoles(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("write refused"))

	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger, Profiles: profiles})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc"})

	assert.Equal(t, PathInterests, out.Decision.Path)
	require.NotNil(t, out.Session)
	assert.Equal(t, domainauth.RoleUser, out.Session.Role,
		"resolver's in-memory role survives a failed sync write")
}

func TestComplete_SessionPersisted(t *testing.T) {
	store := authmocks.NewMemorySessionStore()
	svc := newTestCallbackService(t, CallbackDeps{Sessions: store})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc"})

	require.NotNil(t, out.Session)
	assert.NotEmpty(t, out.Session.ID)
	assert.Equal(t, "mock-user-1", out.Session.UserID)
	assert.Equal(t, "mock-access-token", out.Session.AccessToken)
	assert.Equal(t, 1, store.Len())
}

func TestComplete_SessionSaveFailureStillRedirects(t *testing.T) {
	store := authmocks.NewMemorySessionStore()
	store.SaveErr = errors.New("redis down")
	svc := newTestCallbackService(t, CallbackDeps{Sessions: store})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc"})

	require.NotNil(t, out.Session, "token cookies still work without the server-side record")
	assert.Equal(t, PathInterests, out.Decision.Path)
}

func TestComplete_NilSessionStoreIsAllowed(t *testing.T) {
	svc := newTestCallbackService(t, CallbackDeps{})

	out := svc.Complete(context.Background(), CallbackParams{Code: "abc"})

	require.NotNil(t, out.Session)
	assert.NotEmpty(t, out.Session.ID)
}

func TestComplete_UnconfirmedSignup_VerifyEmail(t *testing.T) {
	exchanger := authmocks.NewMockExchanger()
	exchanger.DefaultUser.EmailConfirmedAt = nil
	svc := newTestCallbackService(t, CallbackDeps{Exchanger: exchanger})

	out := svc.Complete(context.Background(), CallbackParams{TokenHash: "h1", Type: "signup"})

	assert.Equal(t, PathVerifyEmail, out.Decision.Path)
	assert.Empty(t, out.Decision.Query.Get("verified"))
}
