package domain

import "time"

// Campus civil time is fixed at UTC+8, independent of the host zone.
var CampusZone = time.FixedZone("UTC+8", 8*60*60)

const hoursPerDay = 24

// ElapsedDays returns the number of whole days between since and now,
// clamped to zero when now precedes since.
func ElapsedDays(now, since time.Time) int {
	days := int(now.Sub(since).Hours() / hoursPerDay)
	if days < 0 {
		return 0
	}
	return days
}

// DayKey returns the campus-local calendar day of t, used to bucket
// per-day counters.
func DayKey(t time.Time) string {
	return t.In(CampusZone).Format("2006-01-02")
}

// DayStart returns the beginning of t's campus-local calendar day.
func DayStart(t time.Time) time.Time {
	local := t.In(CampusZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, CampusZone)
}

// DayEnd returns the last second of t's campus-local calendar day.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).Add(24*time.Hour - time.Second)
}

// FormatTimestamp renders t in campus-local civil time for display and
// export payloads.
func FormatTimestamp(t time.Time) string {
	return t.In(CampusZone).Format("2006-01-02 15:04:05")
}
