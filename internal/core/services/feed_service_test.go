package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/comitanigiacomo/itera-sync/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextSnapshot(t *testing.T, sub *services.Subscription) domain.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return domain.Snapshot{}
	}
}

func TestFeedService_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Initial snapshot then one per change", func(t *testing.T) {
		trackers, _, notifier, _ := setupTrackerService()
		feed := services.NewFeedService(trackers, notifier)

		sub, err := feed.Subscribe(ctx, "owner-1", domain.CollectionItera)
		require.NoError(t, err)
		defer sub.Close()

		first := nextSnapshot(t, sub)
		assert.Empty(t, first.Active)

		created, err := trackers.Create(ctx, validChallenge("owner-1"))
		require.NoError(t, err)

		second := nextSnapshot(t, sub)
		require.Len(t, second.Active, 1)
		assert.Equal(t, created.ID, second.Active[0].ID)
	})

	t.Run("Success: Other collections do not wake the subscriber", func(t *testing.T) {
		trackers, _, notifier, _ := setupTrackerService()
		feed := services.NewFeedService(trackers, notifier)

		sub, err := feed.Subscribe(ctx, "owner-1", domain.CollectionTatakae)
		require.NoError(t, err)
		defer sub.Close()
		nextSnapshot(t, sub)

		_, err = trackers.Create(ctx, validChallenge("owner-1"))
		require.NoError(t, err)

		select {
		case snap := <-sub.C:
			t.Fatalf("unexpected snapshot: %+v", snap)
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("Success: Close ends the stream", func(t *testing.T) {
		trackers, _, notifier, _ := setupTrackerService()
		feed := services.NewFeedService(trackers, notifier)

		sub, err := feed.Subscribe(ctx, "owner-1", domain.CollectionItera)
		require.NoError(t, err)
		nextSnapshot(t, sub)

		sub.Close()
		sub.Close()

		_, ok := <-sub.C
		assert.False(t, ok)
		<-sub.Done()
	})

	t.Run("Success: Context cancel ends the stream", func(t *testing.T) {
		trackers, _, notifier, _ := setupTrackerService()
		feed := services.NewFeedService(trackers, notifier)

		cctx, cancel := context.WithCancel(ctx)
		sub, err := feed.Subscribe(cctx, "owner-1", domain.CollectionItera)
		require.NoError(t, err)

		cancel()
		select {
		case <-sub.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("subscription did not stop")
		}
	})

	t.Run("Fail: Watch error", func(t *testing.T) {
		trackers, _, notifier, _ := setupTrackerService()
		notifier.failWith = errors.New("pubsub unavailable")
		feed := services.NewFeedService(trackers, notifier)

		_, err := feed.Subscribe(ctx, "owner-1", domain.CollectionItera)
		assert.ErrorContains(t, err, "feed service: watch")
	})

	t.Run("Fail: Initial load error releases the watch", func(t *testing.T) {
		trackers, repo, notifier, _ := setupTrackerService()
		repo.simulateError = errors.New("db down")
		feed := services.NewFeedService(trackers, notifier)

		_, err := feed.Subscribe(ctx, "owner-1", domain.CollectionItera)
		assert.Error(t, err)

		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		assert.Empty(t, notifier.watchers["owner-1/itera"])
	})
}
