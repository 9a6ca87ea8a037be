package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

// FeedService turns change signals into a stream of full snapshots.
type FeedService struct {
	trackers *TrackerService
	notifier domain.ChangeNotifier
}

func NewFeedService(trackers *TrackerService, notifier domain.ChangeNotifier) *FeedService {
	return &FeedService{
		trackers: trackers,
		notifier: notifier,
	}
}

// Subscription is a live query handle. The caller owns it and must Close it
// when the consumer goes away.
type Subscription struct {
	C <-chan domain.Snapshot

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Close stops the subscription and waits for its goroutine to exit.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed once the subscription has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe delivers the current snapshot immediately, then one snapshot per
// change, in order. A consumer that falls behind only receives the most
// recent snapshot.
func (f *FeedService) Subscribe(ctx context.Context, ownerID string, coll domain.Collection) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	changes, release, err := f.notifier.Watch(ctx, ownerID, coll)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("feed service: watch: %w", err)
	}

	initial, err := f.trackers.Snapshot(ctx, ownerID, coll)
	if err != nil {
		release()
		cancel()
		return nil, err
	}

	out := make(chan domain.Snapshot, 1)
	out <- initial

	sub := &Subscription{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(out)
		defer release()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				snap, err := f.trackers.Snapshot(ctx, ownerID, coll)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("[FEED] Reload failed for %s/%s: %v", ownerID, coll, err)
					continue
				}
				replaceLatest(out, snap)
			}
		}
	}()

	return sub, nil
}

// replaceLatest puts snap into a one-slot channel, discarding a stale value
// the reader has not picked up yet. Only the owning goroutine sends on out.
func replaceLatest(out chan domain.Snapshot, snap domain.Snapshot) {
	select {
	case out <- snap:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- snap
}
