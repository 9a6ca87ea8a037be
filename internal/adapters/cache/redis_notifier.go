package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.ChangeNotifier = (*RedisNotifier)(nil)

// RedisNotifier carries change signals over redis pub/sub, so every API
// instance sharing the redis sees every write.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func ChannelName(ownerID string, coll domain.Collection) string {
	return fmt.Sprintf("trackers:%s:%s", ownerID, coll)
}

func (n *RedisNotifier) Publish(ctx context.Context, ownerID string, coll domain.Collection) error {
	return n.rdb.Publish(ctx, ChannelName(ownerID, coll), time.Now().UnixNano()).Err()
}

func (n *RedisNotifier) Watch(ctx context.Context, ownerID string, coll domain.Collection) (<-chan struct{}, func(), error) {
	ch := ChannelName(ownerID, coll)
	ps := n.rdb.Subscribe(ctx, ch)

	// Wait for the subscription confirmation so no publish after Watch is lost.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("redis notifier: subscribe %s: %w", ch, err)
	}

	out := make(chan struct{}, 1)
	stop := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer close(out)

		msgs := ps.Channel()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			if err := ps.Close(); err != nil {
				log.Printf("[CACHE] Failed to close subscription %s: %v", ch, err)
			}
			<-exited
		})
	}
	return out, release, nil
}
