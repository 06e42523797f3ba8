package engine

import "time"

// Classify returns the operating-day category for a calendar date.
// Priority order: explicit holiday flag, then Sunday as implicit
// holiday, then Saturday as short day, then workday. Pure function of
// its inputs; any valid date is accepted.
func Classify(date time.Time, holidays []string) DayType {
	key := date.Format(DateLayout)
	for _, h := range holidays {
		if h == key {
			return DayTypeHoliday
		}
	}
	switch date.Weekday() {
	case time.Sunday:
		return DayTypeHoliday
	case time.Saturday:
		return DayTypeShortDay
	}
	return DayTypeWorkDay
}
