package domain

import "time"

const dateLayout = "2006-01-02"

// Today returns the civil date of now, in now's own location, as midnight UTC.
func Today(now time.Time) time.Time {
	return CivilDate(now)
}

// CivilDate drops the time of day and the zone, keeping the calendar date t has
// in its own location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCivilDate parses a YYYY-MM-DD date.
func ParseCivilDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func daysBetween(start, now time.Time) int {
	return int(CivilDate(now).Sub(CivilDate(start)).Hours() / 24)
}

// DaysSinceStart counts whole calendar days from start to now. A start date in
// the future yields 0.
func DaysSinceStart(start, now time.Time) int {
	days := daysBetween(start, now)
	if days < 0 {
		return 0
	}
	return days
}

// CurrentDayIndex is the 1-based day number the user is on, frozen at duration
// once the tracker has run its course.
func CurrentDayIndex(start time.Time, duration int, now time.Time) int {
	return min(DaysSinceStart(start, now)+1, duration)
}
