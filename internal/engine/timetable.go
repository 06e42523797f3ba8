package engine

import (
	"fmt"
	"time"

	"github.com/shuttleroute-data/pkg/timetable"
)

// Resolve produces the authoritative ordered departure list for one
// direction on one date.
//
// Holidays return the empty list unconditionally; overrides are never
// consulted on a holiday. Otherwise a per-date override for the
// direction, even an empty one, beats the base timetable. Resolution
// of the two directions is independent.
func Resolve(dir Direction, date time.Time, st *ScheduleState) ([]timetable.TimeOfDay, error) {
	if !dir.valid() {
		return nil, fmt.Errorf("%w: direction %q", ErrInvariantViolation, dir)
	}
	dayType := Classify(date, st.Holidays)
	if dayType == DayTypeHoliday {
		return []timetable.TimeOfDay{}, nil
	}
	if override, ok := st.Overrides[FormatDate(date)]; ok {
		if times, ok := override[dir]; ok {
			return times, nil
		}
	}
	base, ok := st.BaseTimetable[dayType]
	if !ok {
		return nil, fmt.Errorf("%w: no base timetable for day type %q", ErrInvariantViolation, dayType)
	}
	return base[dir], nil
}
