package service

import (
	"strings"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
)

// CallbackKind is the top-level classification of an auth callback request.
type CallbackKind string

const (
	// KindError means the provider reported an error on the callback; the
	// request is terminal and no exchange is attempted.
	KindError CallbackKind = "error"
	// KindHashFragment means no server-visible artifact arrived; the tokens
	// are in the URL fragment and only the browser can complete the flow.
	KindHashFragment CallbackKind = "hash_fragment"
	// KindExchange means a code or token is present and a server-side
	// exchange should run.
	KindExchange CallbackKind = "exchange"
)

// CallbackParams carries the query parameters of one callback request.
// Ephemeral; never persisted.
type CallbackParams struct {
	Code             string
	Token            string
	TokenHash        string
	Type             string
	Next             string
	Email            string
	Error            string
	ErrorDescription string
}

// OTPToken returns whichever one-time token variant the request carried.
func (p CallbackParams) OTPToken() string {
	if p.Token != "" {
		return p.Token
	}
	return p.TokenHash
}

// Classification is the classifier's verdict for one request.
type Classification struct {
	Kind CallbackKind
	Flow domainauth.Flow
	// ErrorMessage is the user-readable provider error when Kind is
	// KindError.
	ErrorMessage string
}

// Classify inspects query parameters and decides how the request must be
// handled. Pure function; priority order is fixed:
// provider error > hash fragment > exchange.
func Classify(p CallbackParams) Classification {
	flow := domainauth.ParseFlow(p.Type)

	if p.Error != "" {
		return Classification{
			Kind:         KindError,
			Flow:         flow,
			ErrorMessage: friendlyProviderError(p.Error, p.ErrorDescription),
		}
	}

	if p.Code == "" && p.OTPToken() == "" {
		// Legacy confirmation links deliver tokens in the hash fragment,
		// which never reaches the server.
		return Classification{Kind: KindHashFragment, Flow: flow}
	}

	if flow == domainauth.FlowUnspecified {
		// A bare code with no type is the OAuth redirect shape; a bare
		// token is an email link whose template omitted the type, which
		// historically always meant signup confirmation.
		if p.Code != "" {
			flow = domainauth.FlowOAuth
		} else {
			flow = domainauth.FlowSignup
		}
	}

	return Classification{Kind: KindExchange, Flow: flow}
}

// friendlyProviderError maps the well-known provider error codes to
// user-readable text and passes anything else through.
func friendlyProviderError(code, description string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "access_denied":
		return "Access was denied. You may have cancelled the sign-in, or the link has expired."
	case "invalid_request":
		return "The sign-in request was invalid. Please try again."
	default:
		if description != "" {
			return description
		}
		return code
	}
}
