// Package config provides configuration management for the recording-upload
// authorizer. It handles loading and parsing YAML configuration files, and
// provides structured access to application settings including the Dropbox
// application key, redirect URI, proxy configuration, and logging options.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRedirectURI is the loopback address used when the
	// configuration does not name one. It must match a redirect URI
	// registered with the Dropbox application.
	DefaultRedirectURI = "http://localhost:53682/dropbox-callback"

	// DefaultAuthTimeoutSeconds bounds how long an authorization flow
	// waits for the browser redirect before giving up.
	DefaultAuthTimeoutSeconds = 300

	// DefaultTokenFile is where the CLI writes the token record when no
	// path is configured.
	DefaultTokenFile = "dropbox-token.json"
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Dropbox holds the Dropbox application settings for the
	// recording-upload feature.
	Dropbox Dropbox `yaml:"dropbox"`

	// TokenFile is the path of the token record the CLI reads and writes.
	TokenFile string `yaml:"token-file"`

	// Debug enables or disables debug-level logging.
	Debug bool `yaml:"debug"`

	// LoggingToFile routes log output to rotating files instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file"`

	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	ProxyURL string `yaml:"proxy-url"`
}

// Dropbox describes the Dropbox application used for recording uploads.
type Dropbox struct {
	// AppKey is the Dropbox application key (the OAuth client id). The
	// recording-upload integration is enabled only when this is set.
	AppKey string `yaml:"app-key"`

	// RedirectURI is the loopback redirect address registered with the
	// Dropbox application. The authorization flow listens on its port.
	RedirectURI string `yaml:"redirect-uri"`

	// AuthTimeoutSeconds is how long the authorization flow waits for
	// the browser redirect. Zero means DefaultAuthTimeoutSeconds.
	AuthTimeoutSeconds int `yaml:"auth-timeout-seconds"`
}

// AuthTimeout returns the configured redirect wait as a duration.
func (d Dropbox) AuthTimeout() time.Duration {
	return time.Duration(d.AuthTimeoutSeconds) * time.Second
}

// DropboxEnabled reports whether the recording-upload integration is
// configured: true iff a Dropbox application key string is present.
func (c *Config) DropboxEnabled() bool {
	return c != nil && c.Dropbox.AppKey != ""
}

// LoadConfig reads a YAML configuration file from the given path, parses it
// into a Config struct, applies defaults, and returns it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dropbox.RedirectURI == "" {
		c.Dropbox.RedirectURI = DefaultRedirectURI
	}
	if c.Dropbox.AuthTimeoutSeconds <= 0 {
		c.Dropbox.AuthTimeoutSeconds = DefaultAuthTimeoutSeconds
	}
	if c.TokenFile == "" {
		c.TokenFile = DefaultTokenFile
	}
}
