// Package store persists the CLI's Dropbox token record. The auth package
// itself never writes credentials anywhere; the CLI owns storage and uses
// this package for it.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/SubhanRaj/jitsi-meet/internal/auth/dropbox"
	"github.com/tidwall/sjson"
)

// TokenRecord is the on-disk credential record written after a login.
type TokenRecord struct {
	Type         string `json:"type"`
	AppKey       string `json:"app_key"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry_date"`
	DisplayName  string `json:"display_name,omitempty"`
	LastRefresh  string `json:"last_refresh"`
}

// NewTokenRecord builds a record from a freshly obtained bundle.
func NewTokenRecord(appKey, displayName string, bundle *dropbox.TokenBundle) *TokenRecord {
	return &TokenRecord{
		Type:         "dropbox",
		AppKey:       appKey,
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		Expiry:       bundle.Expiry,
		DisplayName:  displayName,
		LastRefresh:  time.Now().Format(time.RFC3339),
	}
}

// Save serializes the token record to a JSON file, creating the parent
// directory if needed.
func Save(filePath string, record *TokenRecord) error {
	if err := os.MkdirAll(path.Dir(filePath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err = json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write token record: %w", err)
	}
	return nil
}

// Load reads a token record from disk.
func Load(filePath string) (*TokenRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var record TokenRecord
	if err = json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &record, nil
}

// ApplyRefresh rewrites only the token fields of an existing record file.
// The update is path-wise so fields written by other tooling survive.
func ApplyRefresh(filePath string, bundle *dropbox.TokenBundle) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	updated := string(data)
	for field, value := range map[string]string{
		"access_token":  bundle.AccessToken,
		"refresh_token": bundle.RefreshToken,
		"expiry_date":   bundle.Expiry,
		"last_refresh":  time.Now().Format(time.RFC3339),
	} {
		if updated, err = sjson.Set(updated, field, value); err != nil {
			return fmt.Errorf("failed to update %s: %w", field, err)
		}
	}

	if err = os.WriteFile(filePath, []byte(updated), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
