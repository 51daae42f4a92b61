package dropbox

import (
	"errors"
	"fmt"
	"net/http"
)

// OAuthError is the provider-reported error carried back on the redirect
// URL (the "error" and "error_description" query parameters).
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *OAuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("OAuth error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("OAuth error: %s", e.Code)
}

// AuthenticationError represents a failure of the authorization flow
// itself, as opposed to an error reported by the provider.
type AuthenticationError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Cause   error  `json:"-"`
}

func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// Common authentication error values.
var (
	ErrPortInUse = &AuthenticationError{
		Type:    "port_in_use",
		Message: "Redirect listener port is already in use",
		Code:    http.StatusConflict,
	}

	ErrCallbackTimeout = &AuthenticationError{
		Type:    "callback_timeout",
		Message: "Timeout waiting for the authorization redirect",
		Code:    http.StatusRequestTimeout,
	}

	ErrFlowCancelled = &AuthenticationError{
		Type:    "flow_cancelled",
		Message: "Authorization flow was cancelled",
		Code:    http.StatusRequestTimeout,
	}

	ErrCodeExchangeFailed = &AuthenticationError{
		Type:    "code_exchange_failed",
		Message: "Failed to exchange authorization code for tokens",
		Code:    http.StatusBadRequest,
	}
)

// withCause copies a base authentication error and attaches a cause.
func withCause(base *AuthenticationError, cause error) *AuthenticationError {
	return &AuthenticationError{
		Type:    base.Type,
		Message: base.Message,
		Code:    base.Code,
		Cause:   cause,
	}
}

// UserFriendlyMessage maps flow and provider errors to a message suitable
// for the terminal.
func UserFriendlyMessage(err error) string {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		switch authErr.Type {
		case "port_in_use":
			return "The redirect port is already in use. Close the application occupying it and try again."
		case "callback_timeout":
			return "Authorization timed out. Please try again."
		case "flow_cancelled":
			return "Authorization was cancelled."
		default:
			return "Authorization failed. Please try again."
		}
	}

	var oauthErr *OAuthError
	if errors.As(err, &oauthErr) {
		switch oauthErr.Code {
		case "access_denied":
			return "Authorization was denied in the browser."
		default:
			return fmt.Sprintf("Authorization failed: %s", oauthErr.Error())
		}
	}

	return "An unexpected error occurred. Please try again."
}
