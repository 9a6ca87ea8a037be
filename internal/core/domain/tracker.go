package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTrackerNameEmpty    = errors.New("tracker name cannot be empty")
	ErrTrackerNameTooLong  = errors.New("tracker name is too long (max 100 chars)")
	ErrTrackerDescTooLong  = errors.New("tracker description is too long (max 500 chars)")
	ErrTrackerInvalidOwner = errors.New("invalid owner id")
	ErrInvalidColor        = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidDuration     = errors.New("invalid duration (must be 7 or 30 days)")
	ErrInvalidDifficulty   = errors.New("invalid difficulty (must be easy, medium or hard)")
	ErrInvalidCollection   = errors.New("invalid collection (must be itera, tatakae or habits)")
	ErrInvalidMark         = errors.New("invalid day mark")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	DefaultIcon = "default_icon"
	MaxNameLen  = 100
	MaxDescLen  = 500
)

// Collection is one of the three parallel document collections.
type Collection string

const (
	CollectionItera   Collection = "itera"
	CollectionTatakae Collection = "tatakae"
	CollectionHabits  Collection = "habits"
)

func (c Collection) IsValid() bool {
	switch c {
	case CollectionItera, CollectionTatakae, CollectionHabits:
		return true
	default:
		return false
	}
}

// Kind reports which progress rules documents of this collection follow.
func (c Collection) Kind() Kind {
	if c == CollectionHabits {
		return KindBadHabit
	}
	return KindChallenge
}

// ParseCollection validates a collection name coming from the outside.
func ParseCollection(s string) (Collection, error) {
	c := Collection(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCollection, s)
	}
	return c, nil
}

// Mark is the state of one day cell.
//
// Challenges use MarkUnset (not completed) and MarkDone. Bad habits use all
// three: unset is neutral, done is clean and missed is a relapse.
type Mark int8

const (
	MarkMissed Mark = -1
	MarkUnset  Mark = 0
	MarkDone   Mark = 1
)

func (m Mark) String() string {
	switch m {
	case MarkDone:
		return "done"
	case MarkMissed:
		return "missed"
	default:
		return "unset"
	}
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(b []byte) error {
	switch string(b) {
	case "done":
		*m = MarkDone
	case "missed":
		*m = MarkMissed
	case "unset", "":
		*m = MarkUnset
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMark, string(b))
	}
	return nil
}

type Tracker struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Collection  Collection `json:"collection"`
	Kind        Kind       `json:"kind"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color,omitempty"`
	Description string     `json:"description,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`

	StartDate time.Time `json:"start_date"`
	Duration  int       `json:"duration"`
	Progress  []Mark    `json:"day_progress"`

	CompletedDays     int  `json:"completed_days"`
	MissedDays        int  `json:"missed_days"`
	CurrentStreak     int  `json:"current_streak"`
	LongestStreak     int  `json:"longest_streak"`
	ConsecutiveMissed int  `json:"consecutive_missed"`
	RecoveryMode      bool `json:"recovery_mode"`
	IsExtended        bool `json:"is_extended"`
	CurrentPoints     int  `json:"current_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTrackerInput carries the user supplied fields of a new tracker.
type NewTrackerInput struct {
	OwnerID     string
	Collection  Collection
	Name        string
	Icon        string
	Color       string
	Description string
	Difficulty  Difficulty
	Duration    int
}

func validateDetails(name, desc, color string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrTrackerNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return ErrTrackerNameTooLong
	}
	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrTrackerDescTooLong
	}
	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

// NewTracker validates in and returns a tracker starting today with every
// counter zeroed and one unset slot per day.
func NewTracker(in NewTrackerInput, now time.Time) (*Tracker, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, ErrTrackerInvalidOwner
	}
	if !in.Collection.IsValid() {
		return nil, ErrInvalidCollection
	}
	if err := validateDetails(in.Name, in.Description, in.Color); err != nil {
		return nil, err
	}
	if in.Duration != ShortDuration && in.Duration != LongDuration {
		return nil, ErrInvalidDuration
	}

	kind := in.Collection.Kind()
	difficulty := in.Difficulty
	if kind == KindBadHabit {
		if difficulty == "" {
			difficulty = DifficultyMedium
		}
		if !difficulty.IsValid() {
			return nil, ErrInvalidDifficulty
		}
	} else {
		difficulty = ""
	}

	icon := in.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	ts := now.UTC()
	return &Tracker{
		ID:          uuid.NewString(),
		OwnerID:     in.OwnerID,
		Collection:  in.Collection,
		Kind:        kind,
		Name:        strings.TrimSpace(in.Name),
		Icon:        icon,
		Color:       in.Color,
		Description: strings.TrimSpace(in.Description),
		Difficulty:  difficulty,
		StartDate:   Today(now),
		Duration:    in.Duration,
		Progress:    make([]Mark, in.Duration),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// UpdateDetails merges display metadata; empty values keep the current ones.
func (t *Tracker) UpdateDetails(name, icon, color, description string, now time.Time) error {
	name = mergeString(name, t.Name)
	icon = mergeString(icon, t.Icon)
	color = mergeString(color, t.Color)
	description = mergeString(description, t.Description)

	if err := validateDetails(name, description, color); err != nil {
		return err
	}

	t.Name = strings.TrimSpace(name)
	t.Icon = icon
	t.Color = color
	t.Description = strings.TrimSpace(description)
	t.UpdatedAt = now.UTC()
	return nil
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

// Normalize fills schema defaults on a tracker read back from storage. Older
// documents may lack counters or carry a progress slice of the wrong length;
// they are repaired here rather than at every read site.
func (t *Tracker) Normalize() {
	if t.Collection == "" {
		t.Collection = CollectionItera
	}
	t.Kind = t.Collection.Kind()

	if t.Duration <= 0 {
		t.Duration = ShortDuration
	}
	switch {
	case len(t.Progress) < t.Duration:
		t.Progress = append(t.Progress, make([]Mark, t.Duration-len(t.Progress))...)
	case len(t.Progress) > t.Duration:
		t.Progress = t.Progress[:t.Duration]
	}

	if t.Icon == "" {
		t.Icon = DefaultIcon
	}
	if t.Kind == KindBadHabit && !t.Difficulty.IsValid() {
		t.Difficulty = DifficultyMedium
	}
	if t.Kind == KindChallenge {
		t.Difficulty = ""
	}

	if !t.StartDate.IsZero() {
		t.StartDate = CivilDate(t.StartDate)
	} else if !t.CreatedAt.IsZero() {
		t.StartDate = CivilDate(t.CreatedAt)
	}

	if t.LongestStreak < t.CurrentStreak {
		t.LongestStreak = t.CurrentStreak
	}
	if t.CurrentPoints < 0 {
		t.CurrentPoints = 0
	}
	t.RecoveryMode = t.ConsecutiveMissed >= PolicyFor(t.Kind).RecoveryThreshold
}

// Clone returns a deep copy.
func (t *Tracker) Clone() *Tracker {
	c := *t
	c.Progress = append([]Mark(nil), t.Progress...)
	return &c
}
