package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/comitanigiacomo/itera-sync/internal/core/services"
)

const gridWidth = 7

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	todayStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

const (
	cellDone   = "■"
	cellMissed = "✗"
	cellUnset  = "·"
)

func cell(m domain.Mark) string {
	switch m {
	case domain.MarkDone:
		return goodStyle.Render(cellDone)
	case domain.MarkMissed:
		return badStyle.Render(cellMissed)
	default:
		return dimStyle.Render(cellUnset)
	}
}

// renderGrid lays the progress out in weeks. today < 0 highlights nothing.
func renderGrid(progress []domain.Mark, today int) string {
	var b strings.Builder
	for i, m := range progress {
		c := cell(m)
		if i == today {
			c = todayStyle.Render(c)
		}
		b.WriteString(c)
		switch {
		case i == len(progress)-1:
			b.WriteString("\n")
		case (i+1)%gridWidth == 0:
			b.WriteString("\n")
		default:
			b.WriteString(" ")
		}
	}
	return b.String()
}

func trackerTitle(t *domain.Tracker) string {
	style := titleStyle
	if t.Color != "" {
		style = style.Foreground(lipgloss.Color(t.Color))
	}
	name := t.Name
	if t.Icon != "" {
		name = t.Icon + " " + name
	}
	return style.Render(name)
}

func statsLine(t *domain.Tracker) string {
	parts := []string{
		fmt.Sprintf("%d%%", t.CompletionPercentage()),
		fmt.Sprintf("streak %d (best %d)", t.CurrentStreak, t.LongestStreak),
	}
	if t.Kind == domain.KindBadHabit {
		parts = append(parts, fmt.Sprintf("%d pts", t.CurrentPoints), fmt.Sprintf("%d relapses", t.MissedDays))
	} else {
		parts = append(parts, fmt.Sprintf("%d/%d days", t.CompletedDays, t.Duration))
	}
	return strings.Join(parts, " · ")
}

func renderTracker(v *services.TrackerView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", trackerTitle(v.Tracker), dimStyle.Render(string(v.Status)))
	if v.Description != "" {
		fmt.Fprintln(&b, v.Description)
	}
	fmt.Fprintln(&b, statsLine(v.Tracker))
	b.WriteString(renderGrid(v.Progress, v.CurrentDay))
	if v.RecoveryMode {
		fmt.Fprintln(&b, badStyle.Render("recovery mode: missed days in a row, keep going"))
	}
	if v.ExtensionEligible {
		fmt.Fprintln(&b, goodStyle.Render("eligible for extension: itera extend "+v.ID))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func renderSnapshot(snap domain.Snapshot, history bool, now time.Time) string {
	var b strings.Builder

	if len(snap.Active) == 0 {
		fmt.Fprintln(&b, dimStyle.Render("No active trackers in "+string(snap.Collection)))
	}
	for _, t := range snap.Active {
		fmt.Fprintf(&b, "%s  %s\n", trackerTitle(t), dimStyle.Render(t.ID))
		fmt.Fprintln(&b, "  "+statsLine(t))
		for _, line := range strings.Split(strings.TrimRight(renderGrid(t.Progress, t.CurrentDayIndex(now)), "\n"), "\n") {
			fmt.Fprintln(&b, "  "+line)
		}
	}

	if history && len(snap.History) > 0 {
		fmt.Fprintln(&b, titleStyle.Render("History"))
		for _, t := range snap.History {
			fmt.Fprintf(&b, "  %s  %s\n", trackerTitle(t), dimStyle.Render(statsLine(t)))
		}
	}

	r := snap.Rollup
	fmt.Fprintln(&b, dimStyle.Render(fmt.Sprintf(
		"%d active · %d finished · best streak %d · avg %d%% · %d pts",
		r.ActiveCount, r.HistoryCount, r.BestStreak, r.AverageCompletion, r.TotalPoints,
	)))
	return b.String()
}

func renderToggle(res *services.ToggleResult) string {
	if !res.Applied {
		return dimStyle.Render("Ignored: only today's cell can change while the tracker is running.") + "\n"
	}

	c := res.Change
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d: %s → %s", c.DayIndex+1, c.Previous, c.Mark)
	if c.PointsDelta != 0 {
		fmt.Fprintf(&b, " (%+d pts)", c.PointsDelta)
	}
	b.WriteString("\n")
	if c.Milestone > 0 {
		fmt.Fprintln(&b, goodStyle.Render(fmt.Sprintf("Milestone: %d days!", c.Milestone)))
	}
	if c.RecoveryEntered {
		fmt.Fprintln(&b, badStyle.Render("Recovery mode: take it one day at a time."))
	}
	b.WriteString(renderTracker(res.Tracker))
	return b.String()
}

func renderNotification(n domain.Notification, at time.Time) string {
	line := fmt.Sprintf("[%s] %s", at.Format(time.TimeOnly), titleStyle.Render(n.Title))
	if n.Body != "" {
		line += "  " + n.Body
	}
	return line + "\n"
}
