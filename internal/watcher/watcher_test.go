package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SubhanRaj/jitsi-meet/internal/config"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnConfigChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dropbox:\n  app-key: \"one\"\n"), 0600))

	var mu sync.Mutex
	var got string
	w, err := NewWatcher(path, func(cfg *config.Config) {
		mu.Lock()
		got = cfg.Dropbox.AppKey
		mu.Unlock()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() {
		_ = w.Stop()
	}()

	// Give the watch a moment to settle before mutating the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("dropbox:\n  app-key: \"two\"\n"), 0600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got == "two"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherIgnoresUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("dropbox:\n  app-key: \"same\"\n")
	require.NoError(t, os.WriteFile(path, content, 0600))

	calls := 0
	var mu sync.Mutex
	w, err := NewWatcher(path, func(*config.Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() {
		_ = w.Stop()
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, content, 0600))

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, calls)
}
