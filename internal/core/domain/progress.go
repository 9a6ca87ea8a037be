package domain

import (
	"errors"
	"math"
	"time"
)

var ErrNotEligible = errors.New("tracker is not eligible for extension")

// Status is derived at read time and never stored.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusRecovery   Status = "recovery"
	StatusCompleted  Status = "completed"
)

// Change describes what a toggle did, for celebratory side effects.
type Change struct {
	DayIndex        int  `json:"day_index"`
	Previous        Mark `json:"previous"`
	Mark            Mark `json:"mark"`
	Streak          int  `json:"streak"`
	Percentage      int  `json:"percentage"`
	PointsDelta     int  `json:"points_delta"`
	Milestone       int  `json:"milestone,omitempty"`
	RecoveryEntered bool `json:"recovery_entered,omitempty"`
	RecoveryCleared bool `json:"recovery_cleared,omitempty"`
}

func (t *Tracker) Policy() Policy {
	return PolicyFor(t.Kind)
}

func (t *Tracker) DaysSinceStart(now time.Time) int {
	return DaysSinceStart(t.StartDate, now)
}

// CurrentDayIndex is the 1-based day number of now.
func (t *Tracker) CurrentDayIndex(now time.Time) int {
	return CurrentDayIndex(t.StartDate, t.Duration, now)
}

// Expired trackers are read-only and belong to the history bucket.
func (t *Tracker) Expired(now time.Time) bool {
	return t.DaysSinceStart(now) >= t.Duration
}

// CanToggle reports whether dayIndex (zero-based) is the one mutable slot.
func (t *Tracker) CanToggle(dayIndex int, now time.Time) bool {
	if dayIndex < 0 || dayIndex >= len(t.Progress) {
		return false
	}
	if t.Expired(now) {
		return false
	}
	return dayIndex+1 == t.CurrentDayIndex(now)
}

// Toggle advances the mark of the current day and recomputes every derived
// field. When dayIndex is not the current day, or the tracker is expired, it
// returns t itself and a nil Change.
func (t *Tracker) Toggle(dayIndex int, now time.Time) (*Tracker, *Change) {
	if !t.CanToggle(dayIndex, now) {
		return t, nil
	}

	p := t.Policy()
	next := t.Clone()

	prevMark := next.Progress[dayIndex]
	newMark := p.Next(prevMark)
	next.Progress[dayIndex] = newMark

	prevPct := t.CompletionPercentage()
	prevStreak := t.CurrentStreak
	prevRecovery := t.RecoveryMode

	next.CompletedDays = countMarks(next.Progress, MarkDone)
	if p.Kind == KindBadHabit {
		next.MissedDays = countMarks(next.Progress, MarkMissed)
	} else {
		next.MissedDays = countMarks(next.Progress[:dayIndex], MarkUnset)
	}

	switch {
	case newMark == MarkDone:
		next.ConsecutiveMissed = 0
	case p.Kind == KindBadHabit:
		// relapses are explicit, so the run is read off the grid
		next.ConsecutiveMissed = trailingMisses(next.Progress, dayIndex) + 1
	default:
		next.ConsecutiveMissed = t.ConsecutiveMissed + 1
	}
	next.RecoveryMode = next.ConsecutiveMissed >= p.RecoveryThreshold

	next.CurrentStreak = streakAt(next.Progress, dayIndex, p.UnsetIsMiss)
	next.LongestStreak = max(next.LongestStreak, next.CurrentStreak)

	delta := 0
	if p.Scored {
		scoring := ScoringFor(next.Difficulty)
		switch {
		case newMark == MarkDone:
			delta = scoring.PointsPerDay
		case prevMark == MarkDone && newMark == MarkMissed:
			delta = -scoring.Penalty
		}
		points := max(next.CurrentPoints+delta, 0)
		delta = points - next.CurrentPoints
		next.CurrentPoints = points
	}

	next.UpdatedAt = now.UTC()

	change := &Change{
		DayIndex:        dayIndex,
		Previous:        prevMark,
		Mark:            newMark,
		Streak:          next.CurrentStreak,
		Percentage:      next.CompletionPercentage(),
		PointsDelta:     delta,
		RecoveryEntered: !prevRecovery && next.RecoveryMode,
		RecoveryCleared: prevRecovery && !next.RecoveryMode,
	}
	if p.MilestonesOnStreaks {
		change.Milestone = crossedMilestone(p.Milestones, prevStreak, next.CurrentStreak)
	} else {
		change.Milestone = crossedMilestone(p.Milestones, prevPct, change.Percentage)
	}

	return next, change
}

// streakAt walks backwards from idx counting done days. A missed day always
// stops the walk; an unset day stops it only when unsetBreaks is set,
// otherwise it is skipped without being counted.
func streakAt(progress []Mark, idx int, unsetBreaks bool) int {
	streak := 0
	for i := idx; i >= 0; i-- {
		switch progress[i] {
		case MarkDone:
			streak++
		case MarkMissed:
			return streak
		default:
			if unsetBreaks {
				return streak
			}
		}
	}
	return streak
}

// trailingMisses counts the relapse days directly before idx.
func trailingMisses(progress []Mark, idx int) int {
	n := 0
	for i := idx - 1; i >= 0 && progress[i] == MarkMissed; i-- {
		n++
	}
	return n
}

func countMarks(progress []Mark, m Mark) int {
	n := 0
	for _, v := range progress {
		if v == m {
			n++
		}
	}
	return n
}

// CompletionPercentage is round(100 * completed / duration).
func (t *Tracker) CompletionPercentage() int {
	if t.Duration <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(t.CompletedDays) / float64(t.Duration)))
}

// ExtensionEligible reports whether a 7-day tracker may become a 30-day one.
func (t *Tracker) ExtensionEligible(now time.Time) bool {
	if t.Duration != ShortDuration || t.IsExtended {
		return false
	}
	if t.DaysSinceStart(now) < ShortDuration-1 {
		return false
	}
	return float64(t.CompletedDays)/float64(ShortDuration) >= ExtensionThreshold
}

// Extend turns an eligible 7-day tracker into a 30-day one, keeping prior
// progress and appending unset days. It returns false and leaves t untouched
// when the tracker is not eligible, which includes already extended trackers.
func (t *Tracker) Extend(now time.Time) bool {
	if !t.ExtensionEligible(now) {
		return false
	}
	t.Progress = append(t.Progress, make([]Mark, LongDuration-t.Duration)...)
	t.Duration = LongDuration
	t.IsExtended = true
	t.UpdatedAt = now.UTC()
	return true
}

func (t *Tracker) Status(now time.Time) Status {
	switch {
	case daysBetween(t.StartDate, now) < 0:
		return StatusNotStarted
	case t.Expired(now):
		return StatusCompleted
	case t.RecoveryMode:
		return StatusRecovery
	default:
		return StatusInProgress
	}
}
