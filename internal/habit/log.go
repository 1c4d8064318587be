package habit

import (
	"sort"
	"time"
)

// DateLayout is the calendar-date format used throughout the log. Dates are
// local calendar days, never instants; no timezone conversion is applied.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a local midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// Log is the sparse mapping from calendar date to the set of unit IDs logged
// on that date. A date key never maps to an empty set: Toggle removes the key
// when the last unit is cleared.
type Log map[string]map[string]bool

// Logged reports whether unitID is logged on date.
func (l Log) Logged(date, unitID string) bool {
	return l[date][unitID]
}

// IsLogged reports whether the activity counts as done on date: the atomic
// ID for an atomic activity, any sub-activity ID for a composite one. This is
// the single source of truth used by both streaks and the calendar grid.
func (l Log) IsLogged(a Activity, date string) bool {
	day := l[date]
	if len(day) == 0 {
		return false
	}
	for _, id := range a.Units() {
		if day[id] {
			return true
		}
	}
	return false
}

// Toggle flips membership of unitID in the set for date. If the set becomes
// empty the date key is removed entirely.
func (l Log) Toggle(date, unitID string) {
	day := l[date]
	if day == nil {
		l[date] = map[string]bool{unitID: true}
		return
	}
	if day[unitID] {
		delete(day, unitID)
		if len(day) == 0 {
			delete(l, date)
		}
		return
	}
	day[unitID] = true
}

// UnitIDs returns the unit IDs logged on date, sorted for determinism.
func (l Log) UnitIDs(date string) []string {
	day := l[date]
	if len(day) == 0 {
		return nil
	}
	ids := make([]string, 0, len(day))
	for id := range day {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Bounds returns the earliest and latest date keys present anywhere in the
// log. ok is false when the log is empty.
func (l Log) Bounds() (earliest, latest string, ok bool) {
	for date := range l {
		if !ok {
			earliest, latest, ok = date, date, true
			continue
		}
		if date < earliest {
			earliest = date
		}
		if date > latest {
			latest = date
		}
	}
	return earliest, latest, ok
}
