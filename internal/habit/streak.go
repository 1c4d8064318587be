package habit

import "time"

// Streaks holds the two streak figures shown next to an activity.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks computes the current and longest consecutive-day streaks for
// one activity against the full log.
//
// The current streak walks backward from today, counting while each day is
// logged. The walk is bounded below by the log's earliest date key so it
// always terminates even for an activity that has never been logged.
//
// The longest streak scans forward from the earliest date key anywhere in the
// log (not just this activity's) through the later of today and the latest
// key, resetting on every gap. Unlogged days simply reset the counter, so the
// wider window does not affect the result.
func ComputeStreaks(a Activity, log Log, today time.Time) Streaks {
	earliest, latest, ok := log.Bounds()
	if !ok {
		return Streaks{}
	}

	floor, err := ParseDate(earliest)
	if err != nil {
		return Streaks{}
	}
	floor = startOfDay(floor)
	today = startOfDay(today)

	var s Streaks

	for day := today; !day.Before(floor); day = day.AddDate(0, 0, -1) {
		if !log.IsLogged(a, FormatDate(day)) {
			break
		}
		s.Current++
	}

	end := today
	if last, err := ParseDate(latest); err == nil {
		if last = startOfDay(last); last.After(end) {
			end = last
		}
	}

	run := 0
	for day := floor; !day.After(end); day = day.AddDate(0, 0, 1) {
		if log.IsLogged(a, FormatDate(day)) {
			run++
			if run > s.Longest {
				s.Longest = run
			}
		} else {
			run = 0
		}
	}

	return s
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
