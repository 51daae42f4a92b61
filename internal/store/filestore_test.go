package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SubhanRaj/jitsi-meet/internal/auth/dropbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "dropbox-token.json")

	record := NewTokenRecord("app-key", "Jane Doe", &dropbox.TokenBundle{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       "2024-03-15T11:30:00Z",
	})
	require.NoError(t, Save(path, record))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dropbox", loaded.Type)
	assert.Equal(t, "app-key", loaded.AppKey)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.Equal(t, "2024-03-15T11:30:00Z", loaded.Expiry)
	assert.Equal(t, "Jane Doe", loaded.DisplayName)
	assert.NotEmpty(t, loaded.LastRefresh)
}

func TestApplyRefreshUpdatesTokenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dropbox-token.json")

	record := NewTokenRecord("app-key", "Jane Doe", &dropbox.TokenBundle{
		AccessToken:  "old-access",
		RefreshToken: "refresh",
		Expiry:       "2024-03-15T11:30:00Z",
	})
	require.NoError(t, Save(path, record))

	require.NoError(t, ApplyRefresh(path, &dropbox.TokenBundle{
		AccessToken:  "new-access",
		RefreshToken: "refresh",
		Expiry:       "2024-03-15T15:30:00Z",
	}))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "new-access", loaded.AccessToken)
	assert.Equal(t, "2024-03-15T15:30:00Z", loaded.Expiry)
	assert.Equal(t, "Jane Doe", loaded.DisplayName)
}

func TestApplyRefreshPreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dropbox-token.json")

	raw := `{"type":"dropbox","access_token":"old","refresh_token":"r","expiry_date":"2024-03-15T11:30:00Z","last_refresh":"2024-03-15T07:30:00Z","deployment":"meet.example.com"}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	require.NoError(t, ApplyRefresh(path, &dropbox.TokenBundle{
		AccessToken:  "new",
		RefreshToken: "r",
		Expiry:       "2024-03-15T15:30:00Z",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", gjson.GetBytes(data, "access_token").String())
	assert.Equal(t, "meet.example.com", gjson.GetBytes(data, "deployment").String())
}

func TestApplyRefreshMissingFile(t *testing.T) {
	err := ApplyRefresh(filepath.Join(t.TempDir(), "absent.json"), &dropbox.TokenBundle{})
	assert.Error(t, err)
}
