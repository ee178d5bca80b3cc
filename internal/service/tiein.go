package service

import (
	"context"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
)

// checkBusinessTieIn determines whether the authenticating user is already
// entangled with business ownership: an active owned business or an approved
// ownership request. Only invoked for new users on OAuth-style flows.
//
// Lookup failures degrade to tie-in = true: that routes the user to the
// explicit account-type gate, which is the neutral choice. A false negative
// here is the dangerous outcome, since it would land a business owner in
// consumer onboarding.
func (s *CallbackService) checkBusinessTieIn(ctx context.Context, user domainauth.User) bool {
	owned, err := s.ownership.ListOwnedBusinesses(ctx, user.ID)
	if err != nil {
		s.logger().WarnContext(ctx, "owned business lookup failed, routing to account-type gate",
			"user_id", user.ID, "error", err)
		return true
	}
	if len(owned) > 0 {
		return true
	}

	approved, err := s.ownership.ListApprovedOwnershipRequests(ctx, user.ID)
	if err != nil {
		s.logger().WarnContext(ctx, "ownership request lookup failed, routing to account-type gate",
			"user_id", user.ID, "error", err)
		return true
	}
	return len(approved) > 0
}
