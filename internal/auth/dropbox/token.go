package dropbox

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenBundle is the credential set produced by the authorization and
// refresh flows. Expiry is an RFC 3339 timestamp with second precision.
// The bundle is handed back to the caller as-is; this package performs no
// persistence.
type TokenBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry_date"`
}

// expiryAt renders the instant at which a token obtained at now with the
// given lifetime expires.
func expiryAt(now time.Time, lifetime time.Duration) string {
	return now.Add(lifetime).Truncate(time.Second).Format(time.RFC3339)
}

func bundleFromToken(token *oauth2.Token) *TokenBundle {
	var expiry string
	switch {
	case !token.Expiry.IsZero():
		expiry = token.Expiry.Truncate(time.Second).Format(time.RFC3339)
	case token.ExpiresIn > 0:
		expiry = expiryAt(time.Now(), time.Duration(token.ExpiresIn)*time.Second)
	}
	return &TokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       expiry,
	}
}
