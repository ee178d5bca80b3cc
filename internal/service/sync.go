package service

import (
	"context"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/ports"
)

// syncProfileRole reconciles the stored profile role with the
// registration-time account type when they disagree. Idempotent: a no-op
// when they already agree, and safe to repeat if two tabs race. Never runs
// when the account type is unset, since there is nothing authoritative to
// sync toward.
//
// Write failures are logged only; the resolver already holds the correct
// in-memory role for this request, so the redirect decision never blocks
// on this write.
func (s *CallbackService) syncProfileRole(ctx context.Context, user domainauth.User, res Resolution) {
	if !user.AccountType.Resolved() {
		return
	}
	if res.Profile == nil {
		// No row yet; the creation trigger owns the initial write.
		return
	}
	if res.Profile.Role == user.AccountType {
		return
	}

	err := s.profiles.UpdateRoles(ctx, user.ID, ports.ProfileFields{
		Role:        user.AccountType,
		AccountRole: user.AccountType,
	})
	if err != nil {
		s.logger().WarnContext(ctx, "profile role sync failed",
			"user_id", user.ID,
			"from", string(res.Profile.Role),
			"to", string(user.AccountType),
			"error", err)
		return
	}

	s.logger().InfoContext(ctx, "profile role synced",
		"user_id", user.ID,
		"from", string(res.Profile.Role),
		"to", string(user.AccountType))
}
