package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

// Clock returns the current time in the user's local zone.
type Clock func() time.Time

type TrackerService struct {
	repo     domain.TrackerRepository
	notifier domain.ChangeNotifier
	now      Clock
}

func NewTrackerService(repo domain.TrackerRepository, notifier domain.ChangeNotifier, clock Clock) *TrackerService {
	if clock == nil {
		clock = time.Now
	}
	return &TrackerService{
		repo:     repo,
		notifier: notifier,
		now:      clock,
	}
}

type CreateTrackerInput struct {
	OwnerID     string
	Collection  domain.Collection
	Name        string
	Icon        string
	Color       string
	Description string
	Difficulty  domain.Difficulty
	Duration    int
}

type UpdateTrackerInput struct {
	ID          string
	OwnerID     string
	Name        string
	Icon        string
	Color       string
	Description string
}

// TrackerView is a tracker plus the fields derived at read time.
type TrackerView struct {
	*domain.Tracker
	Status            domain.Status `json:"status"`
	CurrentDay        int           `json:"current_day"`
	Percentage        int           `json:"percentage"`
	ExtensionEligible bool          `json:"extension_eligible"`
}

// ToggleResult is returned by Toggle. Change is nil when the toggle was ignored.
type ToggleResult struct {
	Tracker *TrackerView   `json:"tracker"`
	Change  *domain.Change `json:"change,omitempty"`
	Applied bool           `json:"applied"`
}

func (s *TrackerService) View(t *domain.Tracker) *TrackerView {
	now := s.now()
	return &TrackerView{
		Tracker:           t,
		Status:            t.Status(now),
		CurrentDay:        t.CurrentDayIndex(now),
		Percentage:        t.CompletionPercentage(),
		ExtensionEligible: t.ExtensionEligible(now),
	}
}

func (s *TrackerService) Create(ctx context.Context, input CreateTrackerInput) (*domain.Tracker, error) {
	tracker, err := domain.NewTracker(domain.NewTrackerInput{
		OwnerID:     input.OwnerID,
		Collection:  input.Collection,
		Name:        input.Name,
		Icon:        input.Icon,
		Color:       input.Color,
		Description: input.Description,
		Difficulty:  input.Difficulty,
		Duration:    input.Duration,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tracker); err != nil {
		return nil, fmt.Errorf("tracker service: create: %w", err)
	}

	s.publish(ctx, tracker)
	return tracker, nil
}

// Snapshot loads an owner's collection and post-processes it.
func (s *TrackerService) Snapshot(ctx context.Context, ownerID string, coll domain.Collection) (domain.Snapshot, error) {
	trackers, err := s.repo.ListByOwner(ctx, ownerID, coll)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.BuildSnapshot(ownerID, coll, trackers, s.now()), nil
}

// Get returns the tracker if it belongs to ownerID. Foreign trackers are
// reported as not found.
func (s *TrackerService) Get(ctx context.Context, id, ownerID string) (*domain.Tracker, error) {
	tracker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tracker.OwnerID != ownerID {
		return nil, domain.ErrTrackerNotFound
	}
	return tracker, nil
}

func (s *TrackerService) Toggle(ctx context.Context, id, ownerID string, dayIndex int) (*ToggleResult, error) {
	tracker, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updated, change := tracker.Toggle(dayIndex, s.now())
	if change == nil {
		return &ToggleResult{Tracker: s.View(tracker)}, nil
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("tracker service: toggle: %w", err)
	}

	s.publish(ctx, updated)
	return &ToggleResult{Tracker: s.View(updated), Change: change, Applied: true}, nil
}

// Extend converts an eligible 7-day tracker into a 30-day one. Calling it on
// an already extended tracker returns the tracker unchanged.
func (s *TrackerService) Extend(ctx context.Context, id, ownerID string) (*domain.Tracker, error) {
	tracker, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if tracker.IsExtended {
		return tracker, nil
	}

	if !tracker.Extend(s.now()) {
		return nil, domain.ErrNotEligible
	}

	if err := s.repo.Update(ctx, tracker); err != nil {
		return nil, fmt.Errorf("tracker service: extend: %w", err)
	}

	s.publish(ctx, tracker)
	return tracker, nil
}

func (s *TrackerService) Update(ctx context.Context, input UpdateTrackerInput) (*domain.Tracker, error) {
	tracker, err := s.Get(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := tracker.UpdateDetails(input.Name, input.Icon, input.Color, input.Description, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, tracker); err != nil {
		return nil, fmt.Errorf("tracker service: update: %w", err)
	}

	s.publish(ctx, tracker)
	return tracker, nil
}

func (s *TrackerService) Delete(ctx context.Context, id, ownerID string) error {
	tracker, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, tracker)
	return nil
}

// publish is best effort: the write already succeeded, subscribers will catch
// up on their next change.
func (s *TrackerService) publish(ctx context.Context, t *domain.Tracker) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, t.OwnerID, t.Collection); err != nil {
		log.Printf("[FEED] Failed to publish change for %s/%s: %v", t.OwnerID, t.Collection, err)
	}
}
