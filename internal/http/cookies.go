package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
)

// Session cookie names. The token pair cookies let the frontend's provider
// client pick the session up without another handshake.
const (
	CookieSessionID    = "session_id"
	CookieAccessToken  = "ls-access-token"
	CookieRefreshToken = "ls-refresh-token"
)

// CookieJar accumulates every Set-Cookie mutation made while a callback is
// being resolved and applies them in one place, whichever response object a
// branch ultimately writes. Cookies set during the session exchange would
// otherwise be dropped when a later branch builds a fresh redirect.
type CookieJar struct {
	cookies []*http.Cookie
	domain  string
	secure  bool
}

// NewCookieJar creates a jar bound to one request's cookie attributes.
func NewCookieJar(r *http.Request, domain string) *CookieJar {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	return &CookieJar{domain: domain, secure: isSecure}
}

// SetSession records the full cookie set for an established session:
// the opaque session ID plus the provider token pair.
func (j *CookieJar) SetSession(s domainauth.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	j.add(CookieSessionID, s.ID, maxAge)
	j.add(CookieAccessToken, s.AccessToken, maxAge)
	// Refresh tokens outlive the access token; the provider bounds their
	// lifetime server-side.
	j.add(CookieRefreshToken, s.RefreshToken, 30*24*60*60)
}

// Clear records deletion of a cookie.
func (j *CookieJar) Clear(name string) {
	j.cookies = append(j.cookies, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   j.domain,
		HttpOnly: true,
		Secure:   j.secure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession records deletion of every session cookie.
func (j *CookieJar) ClearSession() {
	j.Clear(CookieSessionID)
	j.Clear(CookieAccessToken)
	j.Clear(CookieRefreshToken)
}

// Cookies returns the accumulated mutations.
func (j *CookieJar) Cookies() []*http.Cookie {
	return j.cookies
}

// Apply copies every accumulated mutation onto the response. Call exactly
// once, immediately before writing the response, on every branch.
func (j *CookieJar) Apply(w http.ResponseWriter) {
	for _, c := range j.cookies {
		http.SetCookie(w, c)
	}
}

func (j *CookieJar) add(name, value string, maxAge int) {
	j.cookies = append(j.cookies, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.domain,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
