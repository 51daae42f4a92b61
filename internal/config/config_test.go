package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
dropbox:
  app-key: "abcd1234"
  redirect-uri: "http://localhost:9000/cb"
  auth-timeout-seconds: 120
token-file: "/tmp/dropbox-token.json"
debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "abcd1234", cfg.Dropbox.AppKey)
	assert.Equal(t, "http://localhost:9000/cb", cfg.Dropbox.RedirectURI)
	assert.Equal(t, 2*time.Minute, cfg.Dropbox.AuthTimeout())
	assert.Equal(t, "/tmp/dropbox-token.json", cfg.TokenFile)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
dropbox:
  app-key: "abcd1234"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultRedirectURI, cfg.Dropbox.RedirectURI)
	assert.Equal(t, DefaultAuthTimeoutSeconds, cfg.Dropbox.AuthTimeoutSeconds)
	assert.Equal(t, DefaultTokenFile, cfg.TokenFile)
}

func TestDropboxEnabled(t *testing.T) {
	path := writeConfig(t, `
dropbox:
  app-key: "x"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.DropboxEnabled())
}

func TestDropboxEnabledNoAppKey(t *testing.T) {
	path := writeConfig(t, `
dropbox: {}
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.DropboxEnabled())
}

func TestDropboxEnabledNoSection(t *testing.T) {
	path := writeConfig(t, `
debug: false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.DropboxEnabled())

	var nilCfg *Config
	assert.False(t, nilCfg.DropboxEnabled())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "dropbox: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
