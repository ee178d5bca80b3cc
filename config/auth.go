package config

import "time"

// ProviderConfig contains identity provider configuration.
// The provider owns credentials, token issuance, and OAuth negotiation;
// this service only exchanges callback artifacts against its API.
type ProviderConfig struct {
	// URL is the provider root, e.g. https://auth.example.com.
	URL string `env:"URL"`

	// PublicKey is the public (anon) API key. Safe to embed in the
	// client-side confirmation document.
	PublicKey string `env:"PUBLIC_KEY"`

	// AccountTypeClaimPath locates the registration-time account type in
	// the provider's user metadata.
	AccountTypeClaimPath string `env:"ACCOUNT_TYPE_CLAIM" envDefault:"user_metadata.account_type"`
}

// ProfileWaitConfig bounds the poll that waits out the asynchronous
// profile-creation trigger after a fresh signup.
type ProfileWaitConfig struct {
	Attempts int           `env:"ATTEMPTS" envDefault:"3"`
	Backoff  time.Duration `env:"BACKOFF"  envDefault:"150ms"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Provider is the external identity provider this service talks to.
	Provider ProviderConfig `envPrefix:"AUTH_PROVIDER_"`

	// ProfileWait bounds the new-user profile poll.
	ProfileWait ProfileWaitConfig `envPrefix:"AUTH_PROFILE_WAIT_"`

	// SessionPrefix is the Redis key prefix for server-side sessions.
	SessionPrefix string `env:"AUTH_SESSION_PREFIX" envDefault:"session:"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.ProfileWait.Attempts < 1 {
		a.ProfileWait.Attempts = 1
	}
	if a.ProfileWait.Attempts > 10 {
		a.ProfileWait.Attempts = 10
	}
	if a.ProfileWait.Backoff <= 0 {
		a.ProfileWait.Backoff = 150 * time.Millisecond
	}
	if a.SessionPrefix == "" {
		a.SessionPrefix = "session:"
	}
}
