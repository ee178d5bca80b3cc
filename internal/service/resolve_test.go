package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	apperrors "github.com/localspot/localspot-api/internal/errors"
	authmocks "github.com/localspot/localspot-api/internal/mocks/auth"
	"github.com/localspot/localspot-api/internal/ports"
)

func TestProfileWaitConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   ProfileWaitConfig
		want ProfileWaitConfig
	}{
		{
			name: "zero values get defaults",
			in:   ProfileWaitConfig{},
			want: ProfileWaitConfig{Attempts: 3, Backoff: 150 * time.Millisecond},
		},
		{
			name: "excessive attempts clamped",
			in:   ProfileWaitConfig{Attempts: 50, Backoff: time.Second},
			want: ProfileWaitConfig{Attempts: 10, Backoff: time.Second},
		},
		{
			name: "valid values untouched",
			in:   ProfileWaitConfig{Attempts: 5, Backoff: 20 * time.Millisecond},
			want: ProfileWaitConfig{Attempts: 5, Backoff: 20 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.Sanitize()
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestResolveIdentity_ProfileAppearsOnLaterAttempt(t *testing.T) {
	var slept []time.Duration
	profiles := &authmocks.MockProfileStore{}
	profiles.GetProfileFunc = func(context.Context, string) (domainauth.Profile, error) {
		if profiles.GetProfileCalls < 3 {
			return domainauth.Profile{}, ports.ErrProfileNotFound
		}
		return existingProfile(domainauth.RoleUser, false), nil
	}
	svc := newTestCallbackService(t, CallbackDeps{Profiles: profiles})
	svc.sleepFn = func(d time.Duration) { slept = append(slept, d) }

	res := svc.resolveIdentity(context.Background(), domainauth.User{ID: "mock-user-1"})

	assert.False(t, res.IsNewUser(), "the row appearing within the window is not a new user")
	assert.Equal(t, domainauth.RoleUser, res.Role)
	assert.Equal(t, 3, profiles.GetProfileCalls)
	assert.Len(t, slept, 2, "sleep only between attempts, never before the first")
}

func TestResolveIdentity_AllAttemptsExhausted_NewUser(t *testing.T) {
	profiles := &authmocks.MockProfileStore{}
	svc := newTestCallbackService(t, CallbackDeps{Profiles: profiles})

	res := svc.resolveIdentity(context.Background(), domainauth.User{ID: "u1"})

	assert.True(t, res.IsNewUser())
	assert.Equal(t, domainauth.RoleUnresolved, res.Role)
	assert.Equal(t, 3, profiles.GetProfileCalls)
}

func TestResolveIdentity_RealFailureDoesNotPoll(t *testing.T) {
	profiles := &authmocks.MockProfileStore{
		GetProfileFunc: func(context.Context, string) (domainauth.Profile, error) {
			return domainauth.Profile{}, errors.New("connection refused")
		},
	}
	svc := newTestCallbackService(t, CallbackDeps{Profiles: profiles})

	res := svc.resolveIdentity(context.Background(), domainauth.User{ID: "u1"})

	assert.True(t, res.IsNewUser(), "hard failures degrade to absent")
	assert.Equal(t, 1, profiles.GetProfileCalls, "only absence is worth waiting out")
}

func TestResolveIdentity_SchemaCacheRetriesReduced(t *testing.T) {
	profiles := &authmocks.MockProfileStore{
		GetProfileFunc: func(context.Context, string) (domainauth.Profile, error) {
			return domainauth.Profile{}, apperrors.SchemaCache(errors.New("column does not exist"))
		},
		GetProfileReducedFunc: func(context.Context, string) (domainauth.Profile, error) {
			return existingProfile(domainauth.RoleBusinessOwner, true), nil
		},
	}
	svc := newTestCallbackService(t, CallbackDeps{Profiles: profiles})

	res := svc.resolveIdentity(context.Background(), domainauth.User{ID: "mock-user-1"})

	require.NotNil(t, res.Profile)
	assert.Equal(t, domainauth.RoleBusinessOwner, res.Role)
	assert.Equal(t, 1, profiles.GetProfileCalls)
	assert.Equal(t, 1, profiles.GetProfileReducedCalls)
}

func TestResolveIdentity_RolePriority(t *testing.T) {
	tests := []struct {
		name     string
		metadata domainauth.Role
		stored   domainauth.Role
		want     domainauth.Role
	}{
		{
			name:     "metadata wins over stored role",
			metadata: domainauth.RoleBusinessOwner,
			stored:   domainauth.RoleUser,
			want:     domainauth.RoleBusinessOwner,
		},
		{
			name:     "stored role used when metadata unset",
			metadata: domainauth.RoleUnresolved,
			stored:   domainauth.RoleUser,
			want:     domainauth.RoleUser,
		},
		{
			name:     "both unset stays unresolved",
			metadata: domainauth.RoleUnresolved,
			stored:   domainauth.RoleUnresolved,
			want:     domainauth.RoleUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &authmocks.MockProfileStore{
				GetProfileFunc: func(context.Context, string) (domainauth.Profile, error) {
					return existingProfile(tt.stored, false), nil
				},
			}
			svc := newTestCallbackService(t, CallbackDeps{Profiles: profiles})

			res := svc.resolveIdentity(context.Background(), domainauth.User{
				ID:          "u1",
				AccountType: tt.metadata,
			})

			assert.Equal(t, tt.want, res.Role)
		})
	}
}
