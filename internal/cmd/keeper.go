package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/SubhanRaj/jitsi-meet/internal/auth/dropbox"
	"github.com/SubhanRaj/jitsi-meet/internal/config"
	"github.com/SubhanRaj/jitsi-meet/internal/store"
	"github.com/SubhanRaj/jitsi-meet/internal/watcher"
	log "github.com/sirupsen/logrus"
)

const (
	// refreshLead is how far ahead of expiry the keeper refreshes.
	refreshLead = 10 * time.Minute

	// retryDelay paces retries after a failed or unschedulable refresh.
	retryDelay = time.Minute

	// recheckDelay is used when the record carries no expiry at all.
	recheckDelay = time.Hour
)

// DoWatch keeps the saved token record fresh: it refreshes the access
// token ahead of expiry and reloads the configuration file when it
// changes. It runs until interrupted.
func DoWatch(cfg *config.Config, configPath string) {
	requireDropbox(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	current := cfg
	snapshot := func() *config.Config {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	configWatcher, err := watcher.NewWatcher(configPath, func(newCfg *config.Config) {
		mu.Lock()
		current = newCfg
		mu.Unlock()
	})
	if err != nil {
		log.Fatalf("Failed to create config watcher: %v", err)
		return
	}
	if err = configWatcher.Start(ctx); err != nil {
		log.Fatalf("Failed to start config watcher: %v", err)
		return
	}
	defer func() {
		_ = configWatcher.Stop()
	}()

	log.Infof("Token keeper started, refreshing %s ahead of expiry.", refreshLead)
	for {
		delay := nextRefreshDelay(snapshot())
		if delay > 0 {
			log.Debugf("next refresh check in %s", delay.Truncate(time.Second))
			select {
			case <-ctx.Done():
				log.Info("Token keeper stopping.")
				return
			case <-time.After(delay):
			}
		}
		if ctx.Err() != nil {
			log.Info("Token keeper stopping.")
			return
		}

		if err = refreshOnce(ctx, snapshot()); err != nil {
			log.Errorf("Scheduled refresh failed: %v", err)
			select {
			case <-ctx.Done():
				log.Info("Token keeper stopping.")
				return
			case <-time.After(retryDelay):
			}
		}
	}
}

// nextRefreshDelay computes how long to wait before the next refresh based
// on the saved record's expiry.
func nextRefreshDelay(cfg *config.Config) time.Duration {
	record, err := store.Load(cfg.TokenFile)
	if err != nil {
		log.Warnf("Cannot read token record yet: %v", err)
		return retryDelay
	}
	if record.Expiry == "" {
		return recheckDelay
	}

	expiry, err := time.Parse(time.RFC3339, record.Expiry)
	if err != nil {
		log.Warnf("Token record has malformed expiry %q: %v", record.Expiry, err)
		return retryDelay
	}

	delay := time.Until(expiry) - refreshLead
	if delay < 0 {
		return 0
	}
	return delay
}

func refreshOnce(ctx context.Context, cfg *config.Config) error {
	record, err := store.Load(cfg.TokenFile)
	if err != nil {
		return err
	}

	auth := dropbox.NewDropboxAuth(cfg)
	bundle, err := auth.RefreshTokens(ctx, record.RefreshToken)
	if err != nil {
		return err
	}

	if err = store.ApplyRefresh(cfg.TokenFile, bundle); err != nil {
		return err
	}
	log.Infof("Access token refreshed, valid until %s", bundle.Expiry)
	return nil
}
