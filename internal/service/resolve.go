package service

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	apperrors "github.com/localspot/localspot-api/internal/errors"
	"github.com/localspot/localspot-api/internal/ports"
)

// ProfileWaitConfig bounds the retry loop that gives the asynchronous
// profile-creation trigger a chance to finish before a missing row is
// treated as a brand-new user. A bounded poll, not a fixed sleep: it stops
// as soon as the row appears.
type ProfileWaitConfig struct {
	Attempts int
	Backoff  time.Duration
}

// Sanitize applies guardrails to wait configuration values.
func (c *ProfileWaitConfig) Sanitize() {
	if c.Attempts < 1 {
		c.Attempts = 3
	}
	if c.Attempts > 10 {
		c.Attempts = 10
	}
	if c.Backoff <= 0 {
		c.Backoff = 150 * time.Millisecond
	}
}

// Resolution is the identity resolver's verdict for one authenticated user.
type Resolution struct {
	Role domainauth.Role
	// Profile is nil when no row exists yet (the new-user signal).
	Profile *domainauth.Profile
}

// IsNewUser reports whether the profile lookup found no row.
func (r Resolution) IsNewUser() bool { return r.Profile == nil }

// resolveIdentity resolves the canonical role for an authenticated user
// using the fixed priority order: registration-time account type, then the
// stored profile role. An unresolved role stays unresolved; it is never
// defaulted to RoleUser.
func (s *CallbackService) resolveIdentity(ctx context.Context, user domainauth.User) Resolution {
	profile, err := s.lookupProfileBounded(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, ports.ErrProfileNotFound) {
			// Any lookup failure other than the recovered schema-cache
			// shape degrades to "no profile"; absence already has defined
			// routing.
			s.logger().WarnContext(ctx, "profile lookup failed, treating as absent",
				"user_id", user.ID, "error", err)
		}
		return Resolution{Role: user.AccountType}
	}

	role := user.AccountType
	if !role.Resolved() {
		role = profile.Role
	}
	return Resolution{Role: role, Profile: &profile}
}

// lookupProfileBounded reads the profile, recovering once from the
// stale-schema-cache shape with a reduced column set, and polling with a
// short backoff while the row does not exist yet.
func (s *CallbackService) lookupProfileBounded(ctx context.Context, userID string) (domainauth.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < s.wait.Attempts; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, s.wait.Backoff); err != nil {
				return domainauth.Profile{}, err
			}
		}

		profile, err := s.lookupProfile(ctx, userID)
		if err == nil {
			return profile, nil
		}
		lastErr = err
		if !errors.Is(err, ports.ErrProfileNotFound) {
			// Only absence is worth waiting out; real failures are not.
			return domainauth.Profile{}, err
		}
	}
	return domainauth.Profile{}, lastErr
}

func (s *CallbackService) lookupProfile(ctx context.Context, userID string) (domainauth.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if apperrors.IsSchemaCache(err) {
		// Known transient shape from the recently-added column: one
		// immediate retry with the pre-migration column set.
		s.logger().InfoContext(ctx, "stale schema cache on profile read, retrying reduced",
			"user_id", userID)
		return s.profiles.GetProfileReduced(ctx, userID)
	}
	return domainauth.Profile{}, err
}

// sleep waits for d or until the context is done.
func (s *CallbackService) sleep(ctx context.Context, d time.Duration) error {
	if s.sleepFn != nil {
		s.sleepFn(d)
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
