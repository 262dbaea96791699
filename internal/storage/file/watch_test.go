package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/models"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/file"
)

func TestWatchSeesSaves(t *testing.T) {
	s, path := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 16)
	started := make(chan error, 1)
	go func() {
		started <- file.Watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, s.CreateWallet(context.Background(), models.NewWallet("abcDEF0123456789")))

	select {
	case <-changed:
	case err := <-started:
		t.Fatalf("watch stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}
