package httpx

import (
	"bytes"
	"html/template"
	"net/http"
)

// ConfirmPageData feeds the client-side confirmation document for the
// hash-fragment path. Only the server can set secure cookies, but only the
// browser can see the URL fragment, so confirmation is split into two hops:
// this document reads the fragment, stores the session with the provider's
// browser client, and redirects.
type ConfirmPageData struct {
	// ProviderURL and PublicKey are the provider coordinates the inline
	// script needs to construct a client-side session.
	ProviderURL string
	PublicKey   string
	// Flow is the server-visible type parameter, used as a fallback when
	// the fragment does not repeat it.
	Flow string
}

var confirmPageTmpl = template.Must(template.New("confirm").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Confirming your sign-in…</title>
<meta name="robots" content="noindex">
</head>
<body>
<noscript>JavaScript is required to finish confirming your sign-in.</noscript>
<p>Confirming your sign-in&hellip;</p>
<script>
(function () {
  var providerURL = {{.ProviderURL}};
  var publicKey = {{.PublicKey}};
  var serverFlow = {{.Flow}};

  var params = new URLSearchParams(window.location.hash.replace(/^#/, ""));
  var accessToken = params.get("access_token");
  var refreshToken = params.get("refresh_token");
  var expiresIn = parseInt(params.get("expires_in") || "3600", 10);
  var flow = params.get("type") || serverFlow;

  if (accessToken && refreshToken) {
    var ref = new URL(providerURL).hostname.split(".")[0];
    var session = {
      access_token: accessToken,
      refresh_token: refreshToken,
      token_type: "bearer",
      expires_in: expiresIn,
      expires_at: Math.floor(Date.now() / 1000) + expiresIn,
      provider_key: publicKey
    };
    try {
      window.localStorage.setItem(ref + "-auth-token", JSON.stringify(session));
    } catch (e) {
      // Storage unavailable (private mode); the redirect target will
      // re-prompt for sign-in.
    }
  }

  var dest = "/verify-email?verified=1";
  if (flow === "recovery" || flow === "password_recovery") {
    dest = "/reset-password?verified=1";
  } else if (flow === "email_change" || flow === "emailchange") {
    dest = "/profile?email_changed=true";
  }
  window.location.replace(dest);
})();
</script>
</body>
</html>
`))

// writeConfirmPage renders the confirmation document. Cookie mutations from
// the jar still apply; this branch shares the same chokepoint as redirects.
func writeConfirmPage(w http.ResponseWriter, jar *CookieJar, data ConfirmPageData) {
	var buf bytes.Buffer
	if err := confirmPageTmpl.Execute(&buf, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jar.Apply(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		// Client went away; nothing to recover.
		return
	}
}
