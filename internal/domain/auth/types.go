package auth

// Package auth contains domain-level types for authentication, profiles,
// and post-login routing. It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents the canonical account role resolved for a user.
// Keep string form for easy persistence and cookies.
// The zero value is RoleUnresolved: a profile that exists but carries no
// role is ambiguous and must never be defaulted to RoleUser.
type Role string

const (
	RoleUnresolved    Role = ""
	RoleUser          Role = "user"
	RoleBusinessOwner Role = "business_owner"
)

// ParseRole maps a stored or provider-supplied role string to a Role.
// Unknown values resolve to RoleUnresolved rather than guessing.
func ParseRole(s string) Role {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case string(RoleUser):
		return RoleUser
	case string(RoleBusinessOwner):
		return RoleBusinessOwner
	default:
		return RoleUnresolved
	}
}

// Resolved reports whether the role carries a usable value.
func (r Role) Resolved() bool { return r == RoleUser || r == RoleBusinessOwner }

// Flow classifies the purpose of an authentication handshake.
type Flow string

const (
	FlowUnspecified Flow = ""
	FlowSignup      Flow = "signup"
	FlowRecovery    Flow = "recovery"
	FlowEmailChange Flow = "email_change"
	FlowOAuth       Flow = "oauth"
)

// ParseFlow normalizes the `type` query parameter, including the legacy
// aliases some email templates still emit.
func ParseFlow(s string) Flow {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "signup":
		return FlowSignup
	case "recovery", "password_recovery":
		return FlowRecovery
	case "email_change", "emailchange":
		return FlowEmailChange
	case "oauth":
		return FlowOAuth
	default:
		return FlowUnspecified
	}
}

// User represents the authenticated principal returned by the identity
// provider. It is read-only to this service; the provider owns it.
type User struct {
	ID               string
	Email            string
	EmailConfirmedAt *time.Time // nil until the user verifies their address
	// AccountType is the registration-time account type from provider
	// metadata. Immutable once set by the provider; RoleUnresolved when
	// the metadata never carried one (e.g. OAuth signups).
	AccountType Role
}

// EmailConfirmed reports whether the provider has confirmed the user's email.
func (u User) EmailConfirmed() bool { return u.EmailConfirmedAt != nil }

// Profile is the application-owned row keyed 1:1 to a provider user.
// The two legacy storage columns (role, account_role) are collapsed into
// the single Role field here; the split exists only at the persistence
// boundary.
type Profile struct {
	UserID                string
	Role                  Role
	OnboardingStep        string
	OnboardingComplete    bool
	OnboardingCompletedAt *time.Time
}

// Session is the server-side record persisted after a successful exchange.
// ID is an opaque session identifier; the provider token pair rides along
// so /auth/status can report expiry without another provider round trip.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
