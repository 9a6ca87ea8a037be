package domain_test

import (
	"testing"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onDay(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func TestToggle_Preconditions(t *testing.T) {
	tr := newChallenge(t, 7)

	tests := []struct {
		name     string
		dayIndex int
		now      time.Time
	}{
		{"Past day", 0, onDay(1)},
		{"Future day", 3, onDay(1)},
		{"Negative index", -1, onDay(0)},
		{"Out of range", 9, onDay(0)},
		{"Expired tracker, last slot", 6, onDay(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, change := tr.Toggle(tt.dayIndex, tt.now)

			assert.Nil(t, change)
			assert.Same(t, tr, got, "no-op returns the tracker untouched")
			assert.Zero(t, tr.CompletedDays)
		})
	}
}

func TestToggle_Challenge(t *testing.T) {
	t.Run("Toggling twice is involutive", func(t *testing.T) {
		tr := newChallenge(t, 7)

		once, c1 := tr.Toggle(0, onDay(0))
		require.NotNil(t, c1)
		assert.Equal(t, domain.MarkDone, once.Progress[0])
		assert.Equal(t, 1, once.CompletedDays)
		assert.Equal(t, domain.MarkUnset, tr.Progress[0], "original slice must not be shared")

		twice, c2 := once.Toggle(0, onDay(0))
		require.NotNil(t, c2)
		assert.Equal(t, domain.MarkUnset, twice.Progress[0])
		assert.Equal(t, tr.CompletedDays, twice.CompletedDays)
	})

	t.Run("Consecutive missed and recovery mode", func(t *testing.T) {
		tr := newChallenge(t, 7)

		tr, _ = tr.Toggle(0, onDay(0))
		tr, _ = tr.Toggle(0, onDay(0))
		assert.Equal(t, 1, tr.ConsecutiveMissed)
		assert.False(t, tr.RecoveryMode)

		tr, _ = tr.Toggle(1, onDay(1))
		assert.Zero(t, tr.ConsecutiveMissed)

		tr, c := tr.Toggle(1, onDay(1))
		assert.Equal(t, 1, tr.ConsecutiveMissed, "unchecking today counts once")
		assert.False(t, tr.RecoveryMode)
		assert.False(t, c.RecoveryEntered)

		tr, c = tr.Toggle(1, onDay(1))
		assert.Zero(t, tr.ConsecutiveMissed)
		tr, c = tr.Toggle(1, onDay(1))
		assert.Equal(t, 1, tr.ConsecutiveMissed)
		assert.False(t, c.RecoveryEntered)
	})

	t.Run("Untouched past days do not count as consecutive misses", func(t *testing.T) {
		tr := newChallenge(t, 7)

		tr, _ = tr.Toggle(5, onDay(5))
		tr, c := tr.Toggle(5, onDay(5))

		require.NotNil(t, c)
		assert.Equal(t, 1, tr.ConsecutiveMissed)
		assert.False(t, tr.RecoveryMode)
		assert.False(t, c.RecoveryEntered)
		assert.Equal(t, domain.StatusInProgress, tr.Status(onDay(5)))
	})

	t.Run("Recovery mode from the stored count", func(t *testing.T) {
		tr := newChallenge(t, 7)
		tr.Progress[2] = domain.MarkDone
		tr.ConsecutiveMissed = 1

		tr, c := tr.Toggle(2, onDay(2))
		assert.Equal(t, 2, tr.ConsecutiveMissed)
		assert.True(t, tr.RecoveryMode)
		assert.True(t, c.RecoveryEntered)
		assert.Equal(t, domain.StatusRecovery, tr.Status(onDay(2)))

		tr, c = tr.Toggle(2, onDay(2))
		assert.Zero(t, tr.ConsecutiveMissed)
		assert.False(t, tr.RecoveryMode)
		assert.True(t, c.RecoveryCleared)
	})

	t.Run("Streak breaks on an unchecked day", func(t *testing.T) {
		tr := newChallenge(t, 7)

		tr, _ = tr.Toggle(0, onDay(0))
		tr, _ = tr.Toggle(1, onDay(1))
		tr, c := tr.Toggle(3, onDay(3))

		assert.Equal(t, 1, c.Streak)
		assert.Equal(t, 2, tr.LongestStreak)
		assert.Equal(t, 1, tr.MissedDays, "day 2 was never checked")
	})

	t.Run("Percentage milestones fire once when crossed", func(t *testing.T) {
		tr := newChallenge(t, 7)

		var milestones []int
		for d := 0; d < 7; d++ {
			var c *domain.Change
			tr, c = tr.Toggle(d, onDay(d))
			require.NotNil(t, c)
			if c.Milestone > 0 {
				milestones = append(milestones, c.Milestone)
			}
		}

		// 14%, 29%, 43%, 57%, 71%, 86%, 100%
		assert.Equal(t, []int{25, 50, 75, 100}, milestones)
		assert.Equal(t, 100, tr.CompletionPercentage())
		assert.Equal(t, 7, tr.CurrentStreak)
		assert.Zero(t, tr.CurrentPoints, "challenges are not scored")
	})
}

func TestToggle_BadHabit(t *testing.T) {
	t.Run("Cycle never returns to neutral", func(t *testing.T) {
		tr := newBadHabit(t, domain.DifficultyEasy)

		want := []domain.Mark{domain.MarkDone, domain.MarkMissed, domain.MarkDone, domain.MarkMissed, domain.MarkDone}
		for i, w := range want {
			var c *domain.Change
			tr, c = tr.Toggle(0, onDay(0))
			require.NotNil(t, c)
			assert.Equal(t, w, tr.Progress[0], "toggle #%d", i+1)
			assert.NotEqual(t, domain.MarkUnset, c.Mark)
		}
	})

	t.Run("Hard difficulty points and floor at zero", func(t *testing.T) {
		tr := newBadHabit(t, domain.DifficultyHard)

		tr, c := tr.Toggle(0, onDay(0))
		assert.Equal(t, 3, tr.CurrentPoints)
		assert.Equal(t, 3, c.PointsDelta)

		tr, c = tr.Toggle(0, onDay(0))
		assert.Equal(t, domain.MarkMissed, tr.Progress[0])
		assert.Equal(t, 0, tr.CurrentPoints)
		assert.Equal(t, -3, c.PointsDelta, "delta reflects the floor")
		assert.Equal(t, 1, tr.MissedDays)
		assert.Zero(t, tr.CompletedDays)
	})

	t.Run("Relapse back to clean earns points again", func(t *testing.T) {
		tr := newBadHabit(t, domain.DifficultyMedium)

		tr, _ = tr.Toggle(0, onDay(0))
		tr, _ = tr.Toggle(0, onDay(0))
		tr, c := tr.Toggle(0, onDay(0))

		assert.Equal(t, 2, c.PointsDelta)
		assert.Equal(t, 2, tr.CurrentPoints)
	})

	t.Run("Streak stops at relapse but skips neutral days", func(t *testing.T) {
		tr := newBadHabit(t, domain.DifficultyEasy)
		tr.Progress[0] = domain.MarkDone
		tr.Progress[1] = domain.MarkDone
		tr.Progress[2] = domain.MarkMissed

		tr, c := tr.Toggle(3, onDay(3))
		assert.Equal(t, 1, c.Streak)

		tr2 := newBadHabit(t, domain.DifficultyEasy)
		tr2.Progress[0] = domain.MarkDone
		tr2.Progress[1] = domain.MarkDone

		tr2, c = tr2.Toggle(3, onDay(3))
		assert.Equal(t, 3, c.Streak, "neutral day 2 neither counts nor breaks")
		assert.Equal(t, 3, tr2.LongestStreak)
	})

	t.Run("Two relapses in a row enter recovery mode", func(t *testing.T) {
		tr := newBadHabit(t, domain.DifficultyEasy)
		tr.Progress[0] = domain.MarkMissed

		tr, _ = tr.Toggle(1, onDay(1))
		tr, c := tr.Toggle(1, onDay(1))
		assert.Equal(t, domain.MarkMissed, tr.Progress[1])
		assert.Equal(t, 2, tr.ConsecutiveMissed)
		assert.True(t, c.RecoveryEntered)

		tr, c = tr.Toggle(1, onDay(1))
		assert.Zero(t, tr.ConsecutiveMissed)
		assert.True(t, c.RecoveryCleared)
	})

	t.Run("Streak milestone at seven clean days", func(t *testing.T) {
		tr := newBadHabit(t, domain.DifficultyEasy)
		var c *domain.Change
		for d := 0; d < 7; d++ {
			tr, c = tr.Toggle(d, onDay(d))
		}
		assert.Equal(t, 7, c.Milestone)
		assert.Equal(t, 7, tr.CurrentPoints)
	})
}

func TestExtension(t *testing.T) {
	t.Run("Scenario: six of seven completed is eligible on day 6", func(t *testing.T) {
		tr := newChallenge(t, 7)
		for d := 0; d <= 5; d++ {
			tr, _ = tr.Toggle(d, onDay(d))
		}

		assert.False(t, tr.ExtensionEligible(onDay(5)), "too early")
		assert.True(t, tr.ExtensionEligible(onDay(6)))
	})

	tests := []struct {
		name      string
		completed int
		duration  int
		extended  bool
		want      bool
	}{
		{"Five completed (71%)", 5, 7, false, true},
		{"Four completed (57%)", 4, 7, false, false},
		{"Already extended", 6, 7, true, false},
		{"Thirty day tracker", 30, 30, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newChallenge(t, 7)
			tr.Duration = tt.duration
			tr.Progress = make([]domain.Mark, tt.duration)
			tr.CompletedDays = tt.completed
			tr.IsExtended = tt.extended

			assert.Equal(t, tt.want, tr.ExtensionEligible(onDay(6)))
		})
	}

	t.Run("Extend keeps prior progress and appends unset days", func(t *testing.T) {
		tr := newChallenge(t, 7)
		for d := 0; d < 5; d++ {
			tr, _ = tr.Toggle(d, onDay(d))
		}
		before := append([]domain.Mark(nil), tr.Progress...)

		require.True(t, tr.Extend(onDay(6)))

		assert.Equal(t, 30, tr.Duration)
		assert.Len(t, tr.Progress, 30)
		assert.Equal(t, before, tr.Progress[:7])
		for _, m := range tr.Progress[7:] {
			assert.Equal(t, domain.MarkUnset, m)
		}
		assert.True(t, tr.IsExtended)
		assert.False(t, tr.Expired(onDay(7)), "extension revives the tracker")

		assert.False(t, tr.Extend(onDay(6)), "second call is a no-op")
		assert.Len(t, tr.Progress, 30)
	})
}

func TestStatus(t *testing.T) {
	tr := newChallenge(t, 7)

	assert.Equal(t, domain.StatusNotStarted, tr.Status(onDay(-2)))
	assert.Equal(t, domain.StatusInProgress, tr.Status(onDay(0)))
	assert.Equal(t, domain.StatusInProgress, tr.Status(onDay(6)))
	assert.Equal(t, domain.StatusCompleted, tr.Status(onDay(7)))
	assert.True(t, tr.Expired(onDay(7)))
}

func TestCompletionPercentage(t *testing.T) {
	tr := newChallenge(t, 30)
	tr.CompletedDays = 10

	assert.Equal(t, 33, tr.CompletionPercentage())

	tr.Duration = 0
	assert.Zero(t, tr.CompletionPercentage())
}
