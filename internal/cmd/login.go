// Package cmd implements the CLI commands: login, token refresh, account
// queries, and the long-running token keeper.
package cmd

import (
	"context"
	"errors"

	"github.com/SubhanRaj/jitsi-meet/internal/auth/dropbox"
	"github.com/SubhanRaj/jitsi-meet/internal/config"
	"github.com/SubhanRaj/jitsi-meet/internal/store"
	log "github.com/sirupsen/logrus"
)

// LoginOptions captures knobs shared across commands.
type LoginOptions struct {
	// NoBrowser prints the authorization URL instead of opening a browser.
	NoBrowser bool
}

// DoLogin runs the full authorization handshake, fetches the account
// display name, and saves the token record.
func DoLogin(cfg *config.Config, options *LoginOptions) {
	if options == nil {
		options = &LoginOptions{}
	}
	requireDropbox(cfg)

	ctx := context.Background()
	auth := dropbox.NewDropboxAuth(cfg)

	log.Info("Starting Dropbox authorization...")
	bundle, err := auth.Authorize(ctx, &dropbox.AuthorizeOptions{NoBrowser: options.NoBrowser})
	if err != nil {
		var authErr *dropbox.AuthenticationError
		if errors.As(err, &authErr) {
			log.Fatal(dropbox.UserFriendlyMessage(authErr))
			return
		}
		log.Fatalf("Dropbox authorization failed: %v", err)
		return
	}

	displayName, err := auth.FetchDisplayName(ctx, bundle.AccessToken)
	if err != nil {
		log.Warnf("Could not fetch account display name: %v", err)
	} else {
		log.Infof("Authorized Dropbox account: %s", displayName)
	}

	record := store.NewTokenRecord(cfg.Dropbox.AppKey, displayName, bundle)
	if err = store.Save(cfg.TokenFile, record); err != nil {
		log.Fatalf("Failed to save token record: %v", err)
		return
	}
	log.Infof("Token record saved to %s", cfg.TokenFile)
}

func requireDropbox(cfg *config.Config) {
	if !cfg.DropboxEnabled() {
		log.Fatal("Dropbox is not configured: set dropbox.app-key in the config file.")
	}
}
