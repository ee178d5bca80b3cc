package identity

// Package identity provides the HTTP adapter for the external identity
// provider. The provider owns credentials, token issuance, and OAuth
// negotiation; this adapter only exchanges callback artifacts for sessions
// and maps provider users into domain types.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	apperrors "github.com/localspot/localspot-api/internal/errors"
	"github.com/localspot/localspot-api/internal/ports"
)

// defaultAccountTypeClaimPath locates the registration-time account type
// inside the provider's user metadata.
const defaultAccountTypeClaimPath = "user_metadata.account_type"

// Provider implements ports.SessionExchanger against a GoTrue-style REST API.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Access tokens are provider-signed JWTs; verified against the
	// provider's published JWKS rather than trusted blindly.
	verifier *gooidc.IDTokenVerifier

	accountTypePath jmespath.JMESPath
}

// ProviderConfig holds configuration for the identity provider adapter.
type ProviderConfig struct {
	BaseURL string // provider root, e.g. https://auth.example.com
	APIKey  string // public (anon) API key sent with every request

	// AccountTypeClaimPath overrides where the account type lives in the
	// user metadata. Defaults to "user_metadata.account_type".
	AccountTypeClaimPath string

	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new identity provider adapter.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if config.APIKey == "" {
		return nil, errors.New("API key is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	claimPath := config.AccountTypeClaimPath
	if claimPath == "" {
		claimPath = defaultAccountTypeClaimPath
	}
	compiled, err := jmespath.Compile(claimPath)
	if err != nil {
		return nil, fmt.Errorf("compile account type claim path: %w", err)
	}

	issuer := strings.TrimSuffix(config.BaseURL, "/") + "/auth/v1"
	keySet := gooidc.NewRemoteKeySet(
		gooidc.ClientContext(context.Background(), httpClient),
		issuer+"/.well-known/jwks.json",
	)
	verifier := gooidc.NewVerifier(issuer, keySet, &gooidc.Config{
		// Provider access tokens carry the project ref, not a client ID.
		SkipClientIDCheck: true,
	})

	return &Provider{
		baseURL:         strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:          config.APIKey,
		httpClient:      httpClient,
		verifier:        verifier,
		accountTypePath: compiled,
	}, nil
}

// ExchangeCode trades a one-time authorization code for a session.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (ports.ExchangeResult, error) {
	if code == "" {
		return ports.ExchangeResult{}, errors.New("authorization code is required")
	}

	body := map[string]string{"auth_code": code}
	tr, err := p.tokenRequest(ctx, "/auth/v1/token?grant_type=pkce", body)
	if err != nil {
		return ports.ExchangeResult{}, apperrors.Exchange("code exchange failed", err)
	}
	return tr.toResult()
}

// VerifyOTP trades a one-time token hash for a session. An unspecified flow
// defaults to signup, matching the email templates that omit the type.
func (p *Provider) VerifyOTP(ctx context.Context, in ports.VerifyOTPInput) (ports.ExchangeResult, error) {
	if in.Token == "" {
		return ports.ExchangeResult{}, errors.New("token is required")
	}

	flow := in.Flow
	if flow == domainauth.FlowUnspecified {
		flow = domainauth.FlowSignup
	}

	body := map[string]string{
		"token_hash": in.Token,
		"type":       verifyType(flow),
	}
	if in.Email != "" {
		body["email"] = in.Email
	}

	tr, err := p.tokenRequest(ctx, "/auth/v1/verify", body)
	if err != nil {
		return ports.ExchangeResult{}, apperrors.Exchange("otp verification failed", err)
	}
	return tr.toResult()
}

// GetUser returns the user behind an access token after verifying its
// signature against the provider JWKS.
func (p *Provider) GetUser(ctx context.Context, accessToken string) (domainauth.User, error) {
	if accessToken == "" {
		return domainauth.User{}, errors.New("access token is required")
	}

	tok, err := p.verifier.Verify(ctx, accessToken)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("verify access token: %w", err)
	}

	var raw map[string]any
	if claimsErr := tok.Claims(&raw); claimsErr != nil {
		return domainauth.User{}, fmt.Errorf("parse access token claims: %w", claimsErr)
	}

	var claims struct {
		Sub              string `json:"sub"`
		Email            string `json:"email"`
		EmailConfirmedAt string `json:"email_confirmed_at"`
	}
	if claimsErr := tok.Claims(&claims); claimsErr != nil {
		return domainauth.User{}, fmt.Errorf("parse access token claims: %w", claimsErr)
	}

	return domainauth.User{
		ID:               claims.Sub,
		Email:            claims.Email,
		EmailConfirmedAt: parseProviderTime(claims.EmailConfirmedAt),
		AccountType:      p.accountTypeFrom(raw),
	}, nil
}

// userPayload is the provider's user object as returned inside token
// responses.
type userPayload struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt string         `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

// tokenResponse is the provider's session payload for both code exchange and
// OTP verification.
type tokenResponse struct {
	provider *Provider

	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
	User         userPayload `json:"user"`
}

func (tr tokenResponse) toResult() (ports.ExchangeResult, error) {
	if tr.AccessToken == "" {
		return ports.ExchangeResult{}, apperrors.Exchange("provider returned no access token", nil)
	}

	// Normalize through oauth2.Token so expiry math matches the rest of the
	// OAuth ecosystem (zero ExpiresIn means the hour-long default).
	tok := &oauth2.Token{
		AccessToken:  tr.AccessToken,
		TokenType:    tr.TokenType,
		RefreshToken: tr.RefreshToken,
	}
	if tr.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	} else {
		tok.Expiry = time.Now().Add(time.Hour)
	}

	user := domainauth.User{
		ID:               tr.User.ID,
		Email:            tr.User.Email,
		EmailConfirmedAt: parseProviderTime(tr.User.EmailConfirmedAt),
	}
	if tr.provider != nil {
		user.AccountType = tr.provider.accountTypeFrom(map[string]any{
			"user_metadata": tr.User.UserMetadata,
		})
	}

	return ports.ExchangeResult{
		User:         user,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}, nil
}

// providerError is the provider's error payload. Older endpoints use
// msg/code, newer ones error/error_description.
type providerError struct {
	Msg              string `json:"msg"`
	Error_           string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e providerError) message() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Msg != "":
		return e.Msg
	case e.Error_ != "":
		return e.Error_
	default:
		return "unknown provider error"
	}
}

func (p *Provider) tokenRequest(ctx context.Context, path string, body map[string]string) (tokenResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return tokenResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("provider request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return tokenResponse{}, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var perr providerError
		if unmarshalErr := json.Unmarshal(data, &perr); unmarshalErr != nil {
			return tokenResponse{}, fmt.Errorf("provider status %d", resp.StatusCode)
		}
		return tokenResponse{}, fmt.Errorf("provider status %d: %s", resp.StatusCode, perr.message())
	}

	tr := tokenResponse{provider: p}
	if unmarshalErr := json.Unmarshal(data, &tr); unmarshalErr != nil {
		return tokenResponse{}, fmt.Errorf("decode token response: %w", unmarshalErr)
	}
	return tr, nil
}

// accountTypeFrom pulls the registration-time account type out of arbitrary
// claim shapes using the configured claim path.
func (p *Provider) accountTypeFrom(claims map[string]any) domainauth.Role {
	if p.accountTypePath == nil || claims == nil {
		return domainauth.RoleUnresolved
	}
	v, err := p.accountTypePath.Search(claims)
	if err != nil {
		return domainauth.RoleUnresolved
	}
	s, ok := v.(string)
	if !ok {
		return domainauth.RoleUnresolved
	}
	return domainauth.ParseRole(s)
}

// verifyType maps a domain flow to the provider's verify endpoint type.
func verifyType(f domainauth.Flow) string {
	switch f {
	case domainauth.FlowRecovery:
		return "recovery"
	case domainauth.FlowEmailChange:
		return "email_change"
	default:
		return "signup"
	}
}

func parseProviderTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
