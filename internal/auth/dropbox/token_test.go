package dropbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestExpiryAt(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-15T11:30:00Z", expiryAt(at, 3600*time.Second))

	// Sub-second precision is dropped.
	assert.Equal(t, "2024-03-15T11:30:00Z", expiryAt(at.Add(300*time.Millisecond), time.Hour))
}

func TestBundleFromToken(t *testing.T) {
	expiry := time.Date(2024, 3, 15, 11, 30, 0, 0, time.UTC)
	bundle := bundleFromToken(&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	})

	assert.Equal(t, "access", bundle.AccessToken)
	assert.Equal(t, "refresh", bundle.RefreshToken)
	assert.Equal(t, "2024-03-15T11:30:00Z", bundle.Expiry)
}

func TestBundleFromTokenExpiresInFallback(t *testing.T) {
	bundle := bundleFromToken(&oauth2.Token{AccessToken: "access", ExpiresIn: 3600})

	parsed, err := time.Parse(time.RFC3339, bundle.Expiry)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed, 5*time.Second)
}

func TestBundleFromTokenWithoutExpiry(t *testing.T) {
	bundle := bundleFromToken(&oauth2.Token{AccessToken: "access"})

	assert.Empty(t, bundle.Expiry)
}
