package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
)

func TestDecide_Table(t *testing.T) {
	tests := []struct {
		name  string
		facts Facts
		want  string
	}{
		{
			name:  "provider error with message",
			facts: Facts{ProviderError: true, ErrorMessage: "Access was denied."},
			want:  "/auth/auth-code-error?error=Access+was+denied.",
		},
		{
			name:  "provider error without message",
			facts: Facts{ProviderError: true},
			want:  "/auth/auth-code-error",
		},
		{
			name:  "exchange failed",
			facts: Facts{ExchangeFailed: true, Flow: domainauth.FlowOAuth},
			want:  "/auth/auth-code-error",
		},
		{
			name:  "recovery",
			facts: Facts{Flow: domainauth.FlowRecovery, EmailConfirmed: true},
			want:  "/reset-password?verified=1",
		},
		{
			name:  "email change",
			facts: Facts{Flow: domainauth.FlowEmailChange, EmailConfirmed: true},
			want:  "/profile?email_changed=true",
		},
		{
			name:  "signup unconfirmed email",
			facts: Facts{Flow: domainauth.FlowSignup, IsNewUser: true},
			want:  "/verify-email",
		},
		{
			name: "signup confirmed business owner",
			facts: Facts{
				Flow:           domainauth.FlowSignup,
				IsNewUser:      true,
				EmailConfirmed: true,
				Role:           domainauth.RoleBusinessOwner,
			},
			want: "/my-businesses",
		},
		{
			name: "signup confirmed consumer",
			facts: Facts{
				Flow:           domainauth.FlowSignup,
				IsNewUser:      true,
				EmailConfirmed: true,
				Role:           domainauth.RoleUser,
			},
			want: "/interests?email_verified=true&verified=1",
		},
		{
			name: "signup confirmed unresolved role defers",
			facts: Facts{
				Flow:           domainauth.FlowSignup,
				IsNewUser:      true,
				EmailConfirmed: true,
			},
			want: "/verify-email?verified=1",
		},
		{
			name: "new oauth user with business tie-in",
			facts: Facts{
				Flow:           domainauth.FlowOAuth,
				IsNewUser:      true,
				EmailConfirmed: true,
				TieIn:          true,
			},
			want: "/onboarding/select-account-type?business_tied=true&oauth=true",
		},
		{
			name: "new oauth user no tie-in confirmed",
			facts: Facts{
				Flow:           domainauth.FlowOAuth,
				IsNewUser:      true,
				EmailConfirmed: true,
			},
			want: "/interests?email_verified=true&verified=1",
		},
		{
			name:  "new oauth user email unconfirmed",
			facts: Facts{Flow: domainauth.FlowOAuth, IsNewUser: true},
			want:  "/verify-email",
		},
		{
			name: "existing business owner via oauth hits confirmation gate",
			facts: Facts{
				Flow:               domainauth.FlowOAuth,
				Role:               domainauth.RoleBusinessOwner,
				EmailConfirmed:     true,
				OnboardingComplete: true,
			},
			want: "/onboarding/select-account-type?existingRole=business_owner&mode=oauth",
		},
		{
			name: "existing business owner onboarding complete non-oauth",
			facts: Facts{
				Flow:               domainauth.FlowUnspecified,
				Role:               domainauth.RoleBusinessOwner,
				EmailConfirmed:     true,
				OnboardingComplete: true,
			},
			want: "/claim-business",
		},
		{
			name: "existing consumer onboarding complete",
			facts: Facts{
				Role:               domainauth.RoleUser,
				EmailConfirmed:     true,
				OnboardingComplete: true,
			},
			want: "/complete",
		},
		{
			name: "existing business owner onboarding incomplete",
			facts: Facts{
				Role:           domainauth.RoleBusinessOwner,
				EmailConfirmed: true,
			},
			want: "/claim-business",
		},
		{
			name: "existing consumer onboarding incomplete confirmed",
			facts: Facts{
				Role:           domainauth.RoleUser,
				EmailConfirmed: true,
			},
			want: "/interests",
		},
		{
			name:  "existing user email unconfirmed",
			facts: Facts{Role: domainauth.RoleUser},
			want:  "/verify-email",
		},
		{
			name: "fallback to next for new user in unspecified flow",
			facts: Facts{
				IsNewUser:      true,
				EmailConfirmed: true,
				Next:           "/somewhere",
			},
			want: "/somewhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.facts)
			assert.Equal(t, tt.want, got.URL())
		})
	}
}

// A signup whose email is still unconfirmed must land on /verify-email no
// matter what role or tie-in signals accompany it.
func TestDecide_UnconfirmedSignupAlwaysVerifyEmail(t *testing.T) {
	roles := []domainauth.Role{domainauth.RoleUnresolved, domainauth.RoleUser, domainauth.RoleBusinessOwner}
	for _, role := range roles {
		for _, tieIn := range []bool{false, true} {
			got := Decide(Facts{
				Flow:      domainauth.FlowSignup,
				IsNewUser: true,
				Role:      role,
				TieIn:     tieIn,
			})
			assert.Equal(t, PathVerifyEmail, got.Path, "role=%s tieIn=%v", role, tieIn)
		}
	}
}

// A new OAuth user with a business tie-in is never routed to consumer
// onboarding, regardless of email confirmation.
func TestDecide_TieInBeatsInterests(t *testing.T) {
	for _, confirmed := range []bool{false, true} {
		got := Decide(Facts{
			Flow:           domainauth.FlowOAuth,
			IsNewUser:      true,
			EmailConfirmed: confirmed,
			TieIn:          true,
		})
		assert.Equal(t, PathSelectAccountType, got.Path, "confirmed=%v", confirmed)
		assert.Equal(t, "true", got.Query.Get("business_tied"))
	}
}

// An existing business owner arriving via OAuth is always gated, even when
// onboarding is complete and /claim-business would otherwise win.
func TestDecide_ExistingOwnerOAuthGate(t *testing.T) {
	for _, complete := range []bool{false, true} {
		got := Decide(Facts{
			Flow:               domainauth.FlowOAuth,
			Role:               domainauth.RoleBusinessOwner,
			EmailConfirmed:     true,
			OnboardingComplete: complete,
		})
		assert.Equal(t, PathSelectAccountType, got.Path, "complete=%v", complete)
		assert.Equal(t, "oauth", got.Query.Get("mode"))
	}
}

// Every input must produce exactly one destination; no Facts combination may
// fall through to an empty path.
func TestDecide_TotalOverFlowMatrix(t *testing.T) {
	flows := []domainauth.Flow{
		domainauth.FlowUnspecified,
		domainauth.FlowSignup,
		domainauth.FlowRecovery,
		domainauth.FlowEmailChange,
		domainauth.FlowOAuth,
	}
	roles := []domainauth.Role{domainauth.RoleUnresolved, domainauth.RoleUser, domainauth.RoleBusinessOwner}

	for _, flow := range flows {
		for _, role := range roles {
			for _, newUser := range []bool{false, true} {
				for _, confirmed := range []bool{false, true} {
					got := Decide(Facts{
						Flow:           flow,
						Role:           role,
						IsNewUser:      newUser,
						EmailConfirmed: confirmed,
						Next:           "/fallback",
					})
					assert.NotEmpty(t, got.Path,
						"flow=%s role=%s new=%v confirmed=%v", flow, role, newUser, confirmed)
				}
			}
		}
	}
}

func TestSafeNextPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/dashboard", "/dashboard"},
		{"/a/b?c=d", "/a/b?c=d"},
		{"https://evil.example/phish", "/"},
		{"//evil.example", "/"},
		{"javascript:alert(1)", "/"},
		{"relative/path", "/"},
	}

	for _, tt := range tests {
		if got := SafeNextPath(tt.in); got != tt.want {
			t.Errorf("SafeNextPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
