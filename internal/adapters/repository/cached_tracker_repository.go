package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.TrackerRepository = (*CachedTrackerRepository)(nil)

const listTTL = 30 * time.Minute

// CachedTrackerRepository is a read-through cache for collection listings.
// Every write invalidates the owner's listing of the affected collection.
type CachedTrackerRepository struct {
	next  domain.TrackerRepository
	cache *redis.Client
}

func NewCachedTrackerRepository(next domain.TrackerRepository, cache *redis.Client) *CachedTrackerRepository {
	return &CachedTrackerRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedTrackerRepository) cacheKey(ownerID string, coll domain.Collection) string {
	return fmt.Sprintf("trackers:%s:%s:list", ownerID, coll)
}

func (r *CachedTrackerRepository) invalidate(ctx context.Context, ownerID string, coll domain.Collection) {
	if err := r.cache.Del(ctx, r.cacheKey(ownerID, coll)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate %s/%s: %v", ownerID, coll, err)
	}
}

func (r *CachedTrackerRepository) ListByOwner(ctx context.Context, ownerID string, coll domain.Collection) ([]*domain.Tracker, error) {
	key := r.cacheKey(ownerID, coll)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var trackers []*domain.Tracker
		if err := json.Unmarshal([]byte(val), &trackers); err == nil {
			for _, t := range trackers {
				t.Normalize()
			}
			return trackers, nil
		}

		log.Printf("[CACHE] Corrupted data for %s/%s, cleaning up key", ownerID, coll)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	trackers, err := r.next.ListByOwner(ctx, ownerID, coll)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(trackers); err == nil {
		if setErr := r.cache.Set(ctx, key, data, listTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return trackers, nil
}

func (r *CachedTrackerRepository) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedTrackerRepository) Create(ctx context.Context, tracker *domain.Tracker) error {
	if err := r.next.Create(ctx, tracker); err != nil {
		return err
	}
	r.invalidate(ctx, tracker.OwnerID, tracker.Collection)
	return nil
}

func (r *CachedTrackerRepository) Update(ctx context.Context, tracker *domain.Tracker) error {
	if err := r.next.Update(ctx, tracker); err != nil {
		return err
	}
	r.invalidate(ctx, tracker.OwnerID, tracker.Collection)
	return nil
}

func (r *CachedTrackerRepository) Delete(ctx context.Context, id string) error {
	tracker, err := r.next.GetByID(ctx, id)
	if err == nil && tracker != nil {
		defer r.invalidate(ctx, tracker.OwnerID, tracker.Collection)
	}

	return r.next.Delete(ctx, id)
}
