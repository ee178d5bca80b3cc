package service

import (
	"net/url"
	"strings"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
)

// Destination paths the decision engine can emit.
const (
	PathAuthCodeError     = "/auth/auth-code-error"
	PathResetPassword     = "/reset-password"
	PathProfile           = "/profile"
	PathVerifyEmail       = "/verify-email"
	PathMyBusinesses      = "/my-businesses"
	PathInterests         = "/interests"
	PathSelectAccountType = "/onboarding/select-account-type"
	PathClaimBusiness     = "/claim-business"
	PathComplete          = "/complete"
)

// Facts is the small struct of resolved signals the decision engine routes
// on. Building it is the job of the callback pipeline; deciding from it is
// pure.
type Facts struct {
	ProviderError  bool
	ErrorMessage   string
	ExchangeFailed bool

	Flow               domainauth.Flow
	IsNewUser          bool
	Role               domainauth.Role
	EmailConfirmed     bool
	OnboardingComplete bool
	TieIn              bool

	// Next is the caller-supplied fallback path.
	Next string
}

// Decision is the engine's output: exactly one destination per request.
type Decision struct {
	Path  string
	Query url.Values
}

// URL renders the decision as a redirect target.
func (d Decision) URL() string {
	if len(d.Query) == 0 {
		return d.Path
	}
	return d.Path + "?" + d.Query.Encode()
}

func decision(path string, kv ...string) Decision {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return Decision{Path: path, Query: q}
}

// Decide maps resolved facts to a destination. Ordered decision table;
// first match wins. Two rules shape the ordering: an unresolved role is
// never defaulted to a consumer path, and an existing business owner
// arriving via OAuth is always routed through the explicit confirmation
// gate before any business destination.
func Decide(f Facts) Decision {
	switch {
	case f.ProviderError:
		if f.ErrorMessage != "" {
			return decision(PathAuthCodeError, "error", f.ErrorMessage)
		}
		return decision(PathAuthCodeError)

	case f.ExchangeFailed:
		return decision(PathAuthCodeError)

	case f.Flow == domainauth.FlowRecovery:
		return decision(PathResetPassword, "verified", "1")

	case f.Flow == domainauth.FlowEmailChange:
		return decision(PathProfile, "email_changed", "true")

	case f.Flow == domainauth.FlowSignup && !f.EmailConfirmed:
		return decision(PathVerifyEmail)

	case f.Flow == domainauth.FlowSignup && f.Role == domainauth.RoleBusinessOwner:
		return decision(PathMyBusinesses)

	case f.Flow == domainauth.FlowSignup && f.Role == domainauth.RoleUser:
		return decision(PathInterests, "verified", "1", "email_verified", "true")

	case f.Flow == domainauth.FlowSignup:
		// Email confirmed but role still ambiguous: defer to the
		// downstream gate instead of guessing.
		return decision(PathVerifyEmail, "verified", "1")

	case f.IsNewUser && f.Flow == domainauth.FlowOAuth && f.TieIn:
		return decision(PathSelectAccountType, "oauth", "true", "business_tied", "true")

	case f.IsNewUser && f.Flow == domainauth.FlowOAuth && f.EmailConfirmed:
		return decision(PathInterests, "verified", "1", "email_verified", "true")

	case f.IsNewUser && f.Flow == domainauth.FlowOAuth:
		return decision(PathVerifyEmail)

	case !f.IsNewUser && f.Flow == domainauth.FlowOAuth && f.Role == domainauth.RoleBusinessOwner:
		return decision(PathSelectAccountType, "mode", "oauth", "existingRole", "business_owner")

	case !f.IsNewUser && f.OnboardingComplete:
		if f.Role == domainauth.RoleBusinessOwner {
			return decision(PathClaimBusiness)
		}
		return decision(PathComplete)

	case !f.IsNewUser && f.Role == domainauth.RoleBusinessOwner:
		return decision(PathClaimBusiness)

	case !f.IsNewUser && f.EmailConfirmed:
		return decision(PathInterests)

	case !f.IsNewUser:
		return decision(PathVerifyEmail)

	default:
		return Decision{Path: SafeNextPath(f.Next)}
	}
}

// SafeNextPath ensures the caller-supplied next path is a same-origin
// relative path starting with "/". Returns "/" when invalid.
func SafeNextPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
