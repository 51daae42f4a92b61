package dropbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/SubhanRaj/jitsi-meet/internal/logging"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// callbackServer is the loopback HTTP listener that receives the
// authorization redirect. It plays the role of the popup window's page
// script: it holds only the session id and completes the pending session
// through the registry with the full redirect URL.
type callbackServer struct {
	server    *http.Server
	addr      string
	path      string
	baseURL   string
	state     string
	sessionID string
	registry  *SessionRegistry
}

func newCallbackServer(redirectURI, state, sessionID string, registry *SessionRegistry) (*callbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}
	if u.Host == "" || u.Path == "" {
		return nil, fmt.Errorf("redirect URI %q must carry a host and a path", redirectURI)
	}

	return &callbackServer{
		addr:      u.Host,
		path:      u.Path,
		baseURL:   fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path),
		state:     state,
		sessionID: sessionID,
		registry:  registry,
	}, nil
}

// Start binds the listener and begins serving in the background.
func (s *callbackServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return withCause(ErrPortInUse, err)
	}

	engine := gin.New()
	engine.Use(logging.GinAccessLogger(), logging.GinRecovery())
	engine.GET(s.path, s.handleRedirect)
	engine.GET("/success", s.handleSuccess)

	s.server = &http.Server{
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if errServe := s.server.Serve(listener); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.Errorf("callback listener failed: %v", errServe)
		}
	}()

	return nil
}

// Stop shuts the listener down, the analogue of closing the popup window.
func (s *callbackServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.server = nil
	return err
}

// handleRedirect receives the provider redirect. The pending session is
// completed with the full redirect URL; inspecting its query parameters is
// the coordinator's job.
func (s *callbackServer) handleRedirect(c *gin.Context) {
	if c.Query("state") != s.state {
		log.Warn("authorization redirect with mismatched state parameter")
		c.String(http.StatusBadRequest, "State mismatch. Please restart the authorization flow.")
		return
	}

	redirectURL := s.baseURL
	if raw := c.Request.URL.RawQuery; raw != "" {
		redirectURL = redirectURL + "?" + raw
	}

	errParam := c.Query("error")

	if !s.registry.Complete(s.sessionID, redirectURL) {
		c.String(http.StatusGone, "No pending authorization session.")
		return
	}

	if errParam != "" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(authFailedHTML))
		return
	}
	c.Redirect(http.StatusFound, "/success")
}

func (s *callbackServer) handleSuccess(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(authSuccessHTML))
}

const authSuccessHTML = `<!DOCTYPE html>
<html>
<head><title>Dropbox authorization complete</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>Authorization successful</h1>
<p>Recording uploads can now use this Dropbox account. You can close this window.</p>
</body>
</html>`

const authFailedHTML = `<!DOCTYPE html>
<html>
<head><title>Dropbox authorization failed</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>Authorization failed</h1>
<p>The request was denied or could not be completed. You can close this window and try again.</p>
</body>
</html>`
