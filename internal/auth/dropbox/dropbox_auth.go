// Package dropbox implements OAuth2 authorization against Dropbox for the
// recording-upload feature. It drives the browser-based authorization-code
// handshake through a loopback redirect listener, exchanges the resulting
// code for an access/refresh token bundle, refreshes expired tokens, and
// answers account display-name and storage-quota queries.
package dropbox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SubhanRaj/jitsi-meet/internal/browser"
	"github.com/SubhanRaj/jitsi-meet/internal/config"
	"github.com/SubhanRaj/jitsi-meet/internal/util"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	dropboxAuthURL  = "https://www.dropbox.com/oauth2/authorize"
	dropboxTokenURL = "https://api.dropboxapi.com/oauth2/token"

	currentAccountURL = "https://api.dropboxapi.com/2/users/get_current_account"
	spaceUsageURL     = "https://api.dropboxapi.com/2/users/get_space_usage"
)

var dropboxScopes = []string{"account_info.read", "files.content.write"}

// AuthorizeOptions carries per-flow knobs for Authorize.
type AuthorizeOptions struct {
	// NoBrowser prints the authorization URL instead of opening a browser.
	NoBrowser bool
}

// DropboxAuth drives the Dropbox OAuth2 flow. Dropbox treats the app key
// as a public client id, so the code exchange is protected with PKCE
// rather than a client secret.
type DropboxAuth struct {
	appKey      string
	redirectURI string
	authTimeout time.Duration
	httpClient  *http.Client
	registry    *SessionRegistry

	authURL    string
	tokenURL   string
	accountURL string
	usageURL   string
}

// NewDropboxAuth creates an authorization coordinator from the application
// configuration. The registry is owned by the coordinator; callers that
// need to observe pending sessions can inject their own via SetRegistry.
func NewDropboxAuth(cfg *config.Config) *DropboxAuth {
	return &DropboxAuth{
		appKey:      cfg.Dropbox.AppKey,
		redirectURI: cfg.Dropbox.RedirectURI,
		authTimeout: cfg.Dropbox.AuthTimeout(),
		httpClient:  util.ProxyHTTPClient(cfg, &http.Client{}),
		registry:    NewSessionRegistry(),
		authURL:     dropboxAuthURL,
		tokenURL:    dropboxTokenURL,
		accountURL:  currentAccountURL,
		usageURL:    spaceUsageURL,
	}
}

// SetRegistry replaces the session registry used by subsequent flows.
func (a *DropboxAuth) SetRegistry(registry *SessionRegistry) {
	if registry != nil {
		a.registry = registry
	}
}

func (a *DropboxAuth) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    a.appKey,
		RedirectURL: a.redirectURI,
		Scopes:      dropboxScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  a.authURL,
			TokenURL: a.tokenURL,
		},
	}
}

// withHTTPClient routes oauth2's internal requests through the
// proxy-aware client.
func (a *DropboxAuth) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// buildAuthURL forms the authorization URL: client id, redirect target,
// response type, scopes, PKCE challenge, CSRF state, and the offline
// token-access flag so Dropbox issues a refresh token.
func (a *DropboxAuth) buildAuthURL(state, verifier string) string {
	return a.oauthConfig().AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("token_access_type", "offline"),
	)
}

// Authorize runs the full handshake and code exchange: it registers a
// pending session, starts the loopback listener, sends the user's browser
// to Dropbox, waits for the redirect bounded by ctx and the configured
// timeout, then exchanges the authorization code for a token bundle.
func (a *DropboxAuth) Authorize(ctx context.Context, opts *AuthorizeOptions) (*TokenBundle, error) {
	if opts == nil {
		opts = &AuthorizeOptions{}
	}

	state := uuid.New().String()
	verifier := oauth2.GenerateVerifier()

	redirectURL, err := a.runHandshake(ctx, state, verifier, opts.NoBrowser)
	if err != nil {
		return nil, err
	}

	code, err := authCodeFromRedirect(redirectURL)
	if err != nil {
		return nil, err
	}

	token, err := a.oauthConfig().Exchange(a.withHTTPClient(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, withCause(ErrCodeExchangeFailed, err)
	}

	log.Info("Dropbox authorization successful.")
	return bundleFromToken(token), nil
}

// runHandshake opens the browser and suspends until the redirect completes
// the pending session, the context is cancelled, or the timeout elapses.
// It resolves with the full redirect URL.
func (a *DropboxAuth) runHandshake(ctx context.Context, state, verifier string, noBrowser bool) (string, error) {
	completed := make(chan string, 1)
	sessionID := a.registry.Register(func(redirectURL string) {
		completed <- redirectURL
	})

	server, err := newCallbackServer(a.redirectURI, state, sessionID, a.registry)
	if err != nil {
		a.registry.Cancel(sessionID)
		return "", err
	}
	if err = server.Start(); err != nil {
		a.registry.Cancel(sessionID)
		return "", err
	}
	defer func() {
		if errStop := server.Stop(context.Background()); errStop != nil {
			log.Errorf("failed to stop callback listener: %v", errStop)
		}
	}()

	authURL := a.buildAuthURL(state, verifier)
	if noBrowser {
		log.Infof("Open this URL in your browser to authorize Dropbox access:\n\n%s\n", authURL)
	} else if errOpen := browser.OpenURL(authURL); errOpen != nil {
		log.Errorf("Failed to open browser: %v. Please open the URL manually:\n\n%s\n", errOpen, authURL)
	}

	select {
	case redirectURL := <-completed:
		return redirectURL, nil
	case <-ctx.Done():
		a.registry.Cancel(sessionID)
		return "", withCause(ErrFlowCancelled, ctx.Err())
	case <-time.After(a.authTimeout):
		a.registry.Cancel(sessionID)
		return "", ErrCallbackTimeout
	}
}

// authCodeFromRedirect extracts the authorization-code query parameter from
// the redirect URL. A provider-reported error parameter is surfaced as an
// OAuthError; a missing code is not validated here, the exchange fails with
// the provider's own error.
func authCodeFromRedirect(redirectURL string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect URL: %w", err)
	}

	query := u.Query()
	if errParam := query.Get("error"); errParam != "" {
		return "", &OAuthError{
			Code:        errParam,
			Description: query.Get("error_description"),
		}
	}

	return query.Get("code"), nil
}

// RefreshTokens obtains a fresh access token through the refresh grant.
// Dropbox does not rotate refresh tokens, so the input token is carried
// into the resulting bundle when the response omits one.
func (a *DropboxAuth) RefreshTokens(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	source := a.oauthConfig().TokenSource(a.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	bundle := bundleFromToken(token)
	if bundle.RefreshToken == "" {
		bundle.RefreshToken = refreshToken
	}
	return bundle, nil
}
