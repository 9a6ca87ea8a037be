package domain

import (
	"context"
	"errors"
)

var (
	ErrTrackerNotFound = errors.New("tracker not found")
	ErrUnauthorized    = errors.New("unauthorized")
)

type TrackerRepository interface {
	// Create persists a new tracker document.
	Create(ctx context.Context, tracker *Tracker) error

	// GetByID retrieves a tracker by its unique identifier.
	GetByID(ctx context.Context, id string) (*Tracker, error)

	// ListByOwner retrieves every tracker of a collection owned by ownerID.
	ListByOwner(ctx context.Context, ownerID string, coll Collection) ([]*Tracker, error)

	// Update overwrites the whole document. Last write wins.
	Update(ctx context.Context, tracker *Tracker) error

	// Delete permanently removes a tracker. There is no soft delete.
	Delete(ctx context.Context, id string) error
}

// ChangeNotifier fans out "this collection changed" signals to live
// subscriptions. Signals carry no payload; subscribers reload the snapshot.
type ChangeNotifier interface {
	Publish(ctx context.Context, ownerID string, coll Collection) error

	// Watch returns a channel that receives one value per published change and
	// a function releasing the watch. The channel is closed after release.
	Watch(ctx context.Context, ownerID string, coll Collection) (<-chan struct{}, func(), error)
}

// Notifier delivers a notification to the user through some sink.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}
