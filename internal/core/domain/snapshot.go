package domain

import (
	"math"
	"sort"
	"time"
)

// Snapshot is the full, post-processed view of one owner's collection.
type Snapshot struct {
	OwnerID    string     `json:"owner_id"`
	Collection Collection `json:"collection"`
	Active     []*Tracker `json:"active"`
	History    []*Tracker `json:"history"`
	Rollup     Rollup     `json:"rollup"`
	TakenAt    time.Time  `json:"taken_at"`
}

// Rollup holds cross-tracker statistics. The store keeps no aggregates, so
// these are always derived from a snapshot.
type Rollup struct {
	Total             int `json:"total"`
	ActiveCount       int `json:"active_count"`
	HistoryCount      int `json:"history_count"`
	HistoryDays       int `json:"history_completed_days"`
	HistoryMissedDays int `json:"history_missed_days"`
	BestStreak        int `json:"best_streak"`
	TotalPoints       int `json:"total_points"`
	AverageCompletion int `json:"average_completion"`
	InRecovery        int `json:"in_recovery"`
}

// BuildSnapshot sorts trackers newest first and splits them into active and
// history sets. The input slice is not modified.
func BuildSnapshot(ownerID string, coll Collection, trackers []*Tracker, now time.Time) Snapshot {
	sorted := append([]*Tracker(nil), trackers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	snap := Snapshot{
		OwnerID:    ownerID,
		Collection: coll,
		Active:     make([]*Tracker, 0),
		History:    make([]*Tracker, 0),
		TakenAt:    now.UTC(),
	}
	for _, t := range sorted {
		if t.Expired(now) {
			snap.History = append(snap.History, t)
		} else {
			snap.Active = append(snap.Active, t)
		}
	}
	snap.Rollup = ComputeRollup(snap.Active, snap.History)
	return snap
}

func ComputeRollup(active, history []*Tracker) Rollup {
	r := Rollup{
		Total:        len(active) + len(history),
		ActiveCount:  len(active),
		HistoryCount: len(history),
	}

	pctSum := 0
	for _, set := range [][]*Tracker{active, history} {
		for _, t := range set {
			r.BestStreak = max(r.BestStreak, t.LongestStreak)
			r.TotalPoints += t.CurrentPoints
			pctSum += t.CompletionPercentage()
		}
	}
	for _, t := range active {
		if t.RecoveryMode {
			r.InRecovery++
		}
	}
	for _, t := range history {
		r.HistoryDays += t.CompletedDays
		r.HistoryMissedDays += t.MissedDays
	}

	if r.Total > 0 {
		r.AverageCompletion = int(math.Round(float64(pctSum) / float64(r.Total)))
	}
	return r
}
