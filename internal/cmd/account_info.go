package cmd

import (
	"context"

	"github.com/SubhanRaj/jitsi-meet/internal/auth/dropbox"
	"github.com/SubhanRaj/jitsi-meet/internal/config"
	"github.com/SubhanRaj/jitsi-meet/internal/store"
	log "github.com/sirupsen/logrus"
)

// DoAccountInfo prints the display name of the authorized account.
func DoAccountInfo(cfg *config.Config) {
	auth, record := loadAuth(cfg)

	displayName, err := auth.FetchDisplayName(context.Background(), record.AccessToken)
	if err != nil {
		log.Fatalf("Failed to fetch account info: %v", err)
		return
	}
	log.Infof("Dropbox account: %s", displayName)
}

// DoSpaceUsage prints the account's storage quota.
func DoSpaceUsage(cfg *config.Config) {
	auth, record := loadAuth(cfg)

	usage, err := auth.FetchSpaceUsage(context.Background(), record.AccessToken)
	if err != nil {
		log.Fatalf("Failed to fetch space usage: %v", err)
		return
	}
	log.Infof("Dropbox space: %d of %d bytes used", usage.Used, usage.Allocated)
}

func loadAuth(cfg *config.Config) (*dropbox.DropboxAuth, *store.TokenRecord) {
	requireDropbox(cfg)

	record, err := store.Load(cfg.TokenFile)
	if err != nil {
		log.Fatalf("Failed to load token record: %v", err)
	}
	return dropbox.NewDropboxAuth(cfg), record
}
