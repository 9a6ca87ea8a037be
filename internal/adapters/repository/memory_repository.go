package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

var (
	_ domain.TrackerRepository = (*InMemoryTrackerRepository)(nil)
	_ domain.UserRepository    = (*InMemoryUserRepository)(nil)
)

// InMemoryTrackerRepository stores deep copies, so callers never share
// progress slices with the store.
type InMemoryTrackerRepository struct {
	store map[string]*domain.Tracker

	mu sync.RWMutex
}

func NewInMemoryTrackerRepository() *InMemoryTrackerRepository {
	return &InMemoryTrackerRepository{
		store: make(map[string]*domain.Tracker),
	}
}

func (r *InMemoryTrackerRepository) Create(ctx context.Context, tracker *domain.Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[tracker.ID] = tracker.Clone()
	return nil
}

func (r *InMemoryTrackerRepository) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tracker, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTrackerNotFound
	}
	return tracker.Clone(), nil
}

func (r *InMemoryTrackerRepository) ListByOwner(ctx context.Context, ownerID string, coll domain.Collection) ([]*domain.Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trackers := make([]*domain.Tracker, 0)
	for _, t := range r.store {
		if t.OwnerID == ownerID && t.Collection == coll {
			trackers = append(trackers, t.Clone())
		}
	}

	sort.Slice(trackers, func(i, j int) bool {
		return trackers[i].CreatedAt.After(trackers[j].CreatedAt)
	})

	return trackers, nil
}

func (r *InMemoryTrackerRepository) Update(ctx context.Context, tracker *domain.Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[tracker.ID]; !ok {
		return domain.ErrTrackerNotFound
	}

	r.store[tracker.ID] = tracker.Clone()
	return nil
}

func (r *InMemoryTrackerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTrackerNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryUserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailAlreadyExists
	}

	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}
