package habit

import "time"

// GridCells is the fixed size of a month grid: 6 rows of 7 days. Padding with
// trailing days guarantees a stable display height for every month.
const GridCells = 42

// SelfMark is the sentinel mark emitted for an atomic activity logged on a
// day. The renderer maps it to the theme's primary color; sub-activities
// carry their own color instead.
const SelfMark = "self"

// DayCell is one cell of the month grid.
type DayCell struct {
	Date    string   `json:"date"`
	Day     int      `json:"day"`
	InMonth bool     `json:"in_month"`
	Marks   []string `json:"marks"`
}

// BuildMonthGrid produces the 42-cell grid for the given month: the trailing
// days of the previous month down to the month's first weekday (Sunday-based),
// every day of the month, then leading days of the next month to pad to 42.
func BuildMonthGrid(a Activity, log Log, year int, month time.Month) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	firstWeekday := int(first.Weekday())
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()

	cells := make([]DayCell, 0, GridCells)

	for i := firstWeekday; i > 0; i-- {
		cells = append(cells, newCell(a, log, first.AddDate(0, 0, -i), false))
	}
	for day := 0; day < daysInMonth; day++ {
		cells = append(cells, newCell(a, log, first.AddDate(0, 0, day), true))
	}
	next := first.AddDate(0, 1, 0)
	for i := 0; len(cells) < GridCells; i++ {
		cells = append(cells, newCell(a, log, next.AddDate(0, 0, i), false))
	}

	return cells
}

func newCell(a Activity, log Log, t time.Time, inMonth bool) DayCell {
	date := FormatDate(t)
	return DayCell{
		Date:    date,
		Day:     t.Day(),
		InMonth: inMonth,
		Marks:   marksFor(a, log, date),
	}
}

// marksFor returns the marks for one day: the colors of logged sub-activities
// in the activity's declared order, or a single SelfMark for a logged atomic
// activity.
func marksFor(a Activity, log Log, date string) []string {
	switch a.Kind() {
	case KindComposite:
		var marks []string
		for _, sub := range a.SubActivities {
			if log.Logged(date, sub.ID) {
				marks = append(marks, sub.Color)
			}
		}
		return marks
	default:
		if log.Logged(date, a.ID) {
			return []string{SelfMark}
		}
		return nil
	}
}
