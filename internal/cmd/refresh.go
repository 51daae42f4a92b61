package cmd

import (
	"context"

	"github.com/SubhanRaj/jitsi-meet/internal/auth/dropbox"
	"github.com/SubhanRaj/jitsi-meet/internal/config"
	"github.com/SubhanRaj/jitsi-meet/internal/store"
	log "github.com/sirupsen/logrus"
)

// DoRefresh refreshes the access token in the saved record using the
// refresh grant and writes the updated fields back.
func DoRefresh(cfg *config.Config) {
	requireDropbox(cfg)

	record, err := store.Load(cfg.TokenFile)
	if err != nil {
		log.Fatalf("Failed to load token record: %v", err)
		return
	}
	if record.RefreshToken == "" {
		log.Fatal("Token record has no refresh token; run a login first.")
		return
	}

	auth := dropbox.NewDropboxAuth(cfg)
	bundle, err := auth.RefreshTokens(context.Background(), record.RefreshToken)
	if err != nil {
		log.Fatalf("Token refresh failed: %v", err)
		return
	}

	if err = store.ApplyRefresh(cfg.TokenFile, bundle); err != nil {
		log.Fatalf("Failed to update token record: %v", err)
		return
	}
	log.Infof("Access token refreshed, valid until %s", bundle.Expiry)
}
