package habit

import (
	"testing"
	"time"
)

func localDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func logDays(units []string, dates ...string) Log {
	log := Log{}
	for _, date := range dates {
		for _, id := range units {
			log.Toggle(date, id)
		}
	}
	return log
}

func TestStreaksEmptyLog(t *testing.T) {
	a := Activity{ID: "act1", Name: "Exercise"}

	s := ComputeStreaks(a, Log{}, localDate(2024, 3, 10))
	if s.Current != 0 || s.Longest != 0 {
		t.Errorf("streaks = %+v, want zeroes", s)
	}
}

func TestStreaksNeverLoggedActivity(t *testing.T) {
	a := Activity{ID: "act1", Name: "Exercise"}
	// Other activities have logs; this one never does.
	log := logDays([]string{"other"}, "2024-03-01", "2024-03-02")

	s := ComputeStreaks(a, log, localDate(2024, 3, 10))
	if s.Current != 0 || s.Longest != 0 {
		t.Errorf("streaks = %+v, want zeroes", s)
	}
}

func TestStreaksSingleDayToday(t *testing.T) {
	a := Activity{ID: "act1", Name: "Exercise"}
	log := logDays([]string{"act1"}, "2024-03-10")

	s := ComputeStreaks(a, log, localDate(2024, 3, 10))
	if s.Current != 1 {
		t.Errorf("current = %d, want 1", s.Current)
	}
	if s.Longest != 1 {
		t.Errorf("longest = %d, want 1", s.Longest)
	}
}

func TestStreaksGapBreaksCurrent(t *testing.T) {
	// Logged 2024-03-01..05, gap, then 2024-03-10.
	a := Activity{ID: "act1", Name: "Exercise"}
	log := logDays([]string{"act1"},
		"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05",
		"2024-03-10",
	)

	s := ComputeStreaks(a, log, localDate(2024, 3, 10))
	if s.Current != 1 {
		t.Errorf("current = %d, want 1", s.Current)
	}
	if s.Longest != 5 {
		t.Errorf("longest = %d, want 5", s.Longest)
	}
}

func TestStreaksCurrentZeroWhenTodayUnlogged(t *testing.T) {
	a := Activity{ID: "act1", Name: "Exercise"}
	log := logDays([]string{"act1"}, "2024-03-08", "2024-03-09")

	s := ComputeStreaks(a, log, localDate(2024, 3, 10))
	if s.Current != 0 {
		t.Errorf("current = %d, want 0 when today is unlogged", s.Current)
	}
	if s.Longest != 2 {
		t.Errorf("longest = %d, want 2", s.Longest)
	}
}

func TestStreaksFullRangeLogged(t *testing.T) {
	// Every day in [d0, today] logged: current == longest == day count.
	a := Activity{ID: "act1", Name: "Exercise"}
	log := Log{}
	d0 := localDate(2024, 2, 25)
	today := localDate(2024, 3, 5)
	for d := d0; !d.After(today); d = d.AddDate(0, 0, 1) {
		log.Toggle(FormatDate(d), "act1")
	}

	s := ComputeStreaks(a, log, today)
	if s.Current != 10 {
		t.Errorf("current = %d, want 10", s.Current)
	}
	if s.Longest != 10 {
		t.Errorf("longest = %d, want 10", s.Longest)
	}
}

func TestStreaksCompositeCountsSubActivities(t *testing.T) {
	a := Activity{
		ID:   "act1",
		Name: "Reading",
		SubActivities: []SubActivity{
			{ID: "fiction", Color: "#ff0000"},
			{ID: "nonfiction", Color: "#0000ff"},
		},
	}
	log := Log{}
	log.Toggle("2024-06-13", "fiction")
	log.Toggle("2024-06-14", "nonfiction")
	log.Toggle("2024-06-15", "fiction")

	s := ComputeStreaks(a, log, localDate(2024, 6, 15))
	if s.Current != 3 {
		t.Errorf("current = %d, want 3", s.Current)
	}
	if s.Longest != 3 {
		t.Errorf("longest = %d, want 3", s.Longest)
	}
}

func TestStreaksLongestScanUsesStoreWideWindow(t *testing.T) {
	// Another activity's earlier logs widen the scan window; the result for
	// this activity must be unaffected.
	a := Activity{ID: "act1", Name: "Exercise"}
	log := logDays([]string{"other"}, "2023-01-01")
	log.Toggle("2024-03-09", "act1")
	log.Toggle("2024-03-10", "act1")

	s := ComputeStreaks(a, log, localDate(2024, 3, 10))
	if s.Current != 2 {
		t.Errorf("current = %d, want 2", s.Current)
	}
	if s.Longest != 2 {
		t.Errorf("longest = %d, want 2", s.Longest)
	}
}

func TestStreaksLongestBeyondLatestKey(t *testing.T) {
	// Latest key is in the future relative to today; the scan window extends
	// to the latest key.
	a := Activity{ID: "act1", Name: "Exercise"}
	log := logDays([]string{"act1"}, "2024-03-11", "2024-03-12", "2024-03-13")

	s := ComputeStreaks(a, log, localDate(2024, 3, 10))
	if s.Current != 0 {
		t.Errorf("current = %d, want 0", s.Current)
	}
	if s.Longest != 3 {
		t.Errorf("longest = %d, want 3", s.Longest)
	}
}

func TestStreaksAcrossMonthBoundary(t *testing.T) {
	a := Activity{ID: "act1", Name: "Exercise"}
	log := logDays([]string{"act1"}, "2024-02-28", "2024-02-29", "2024-03-01")

	s := ComputeStreaks(a, log, localDate(2024, 3, 1))
	if s.Current != 3 {
		t.Errorf("current = %d, want 3 across leap-month boundary", s.Current)
	}
	if s.Longest != 3 {
		t.Errorf("longest = %d, want 3", s.Longest)
	}
}
