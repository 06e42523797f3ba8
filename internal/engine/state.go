package engine

import (
	"fmt"
	"time"

	"github.com/shuttleroute-data/pkg/timetable"
)

// Direction is one of the two traversal orientations of the route.
type Direction string

const (
	DirectionOutbound Direction = "outbound" // origin stop towards terminus
	DirectionInbound  Direction = "inbound"  // terminus back towards origin
)

// ParseDirection validates a caller-supplied direction value.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionOutbound, DirectionInbound:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

func (d Direction) valid() bool {
	return d == DirectionOutbound || d == DirectionInbound
}

// Opposite returns the other orientation.
func (d Direction) Opposite() Direction {
	if d == DirectionOutbound {
		return DirectionInbound
	}
	return DirectionOutbound
}

// DayType is the operating-day category governing which base timetable
// applies to a calendar date.
type DayType string

const (
	DayTypeWorkDay  DayType = "workday"
	DayTypeShortDay DayType = "shortday"
	DayTypeHoliday  DayType = "holiday"
)

// ParseEditableDayType accepts the day types that carry a base
// timetable. Holidays never have entries, so they are not editable.
func ParseEditableDayType(s string) (DayType, error) {
	switch DayType(s) {
	case DayTypeWorkDay, DayTypeShortDay:
		return DayType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDayType, s)
}

// DateLayout is the calendar date form used as map keys and over the
// wire.
const DateLayout = "2006-01-02"

// ParseDate validates a caller-supplied calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a date back to its key form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Settings are the tunable numbers of the route: nominal length,
// assumed vehicle speed and the fallback trip duration.
type Settings struct {
	RouteKm     float64 `json:"route_km"`
	SpeedKmh    float64 `json:"speed_kmh"`
	TripMinutes int     `json:"trip_minutes"`
}

// VehicleFix is the single retained vehicle position reading. Progress
// is the percent advancement from the origin stop at capture time.
type VehicleFix struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	CapturedAt time.Time `json:"captured_at"`
	Progress   float64   `json:"progress"`
}

// DirectionTimes maps a direction to its ordered departure list. A
// present key with an empty list means all departures cancelled, which
// is distinct from the key being absent.
type DirectionTimes map[Direction][]timetable.TimeOfDay

// ScheduleState is the whole persisted schedule document. Operations
// load it, apply at most one mutation and write it back whole; the
// engine never retains it across calls.
type ScheduleState struct {
	NotifyTarget  string                     `json:"notify_target,omitempty"`
	VehicleFix    *VehicleFix                `json:"vehicle_fix,omitempty"`
	Settings      Settings                   `json:"settings"`
	BaseTimetable map[DayType]DirectionTimes `json:"base_timetable"`
	Overrides     map[string]DirectionTimes  `json:"overrides"`
	Holidays      []string                   `json:"holidays"`
}

// DefaultSettings are applied when a document carries no usable
// settings. The 13.3 km nominal length matches the surveyed distance
// between the two stops.
func DefaultSettings() Settings {
	return Settings{RouteKm: 13.3, SpeedKmh: 45, TripMinutes: 18}
}

// DefaultState seeds a fresh document when no persisted copy exists.
func DefaultState() *ScheduleState {
	return &ScheduleState{
		Settings: DefaultSettings(),
		BaseTimetable: map[DayType]DirectionTimes{
			DayTypeWorkDay: {
				DirectionOutbound: mustTimes("06:20", "07:20", "08:00", "09:00", "11:00", "13:00", "15:00", "17:00"),
				DirectionInbound:  mustTimes("06:50", "07:40", "08:30", "09:30", "11:30", "13:30", "15:30", "17:30"),
			},
			DayTypeShortDay: {
				DirectionOutbound: mustTimes("07:00", "08:00", "09:00", "11:00", "13:00", "15:00"),
				DirectionInbound:  mustTimes("07:30", "08:30", "09:30", "11:30", "15:30"),
			},
		},
		Overrides: map[string]DirectionTimes{},
		Holidays:  []string{"2026-01-01", "2026-02-23", "2026-03-08", "2026-05-01", "2026-05-09"},
	}
}

// IsHoliday reports membership of a date key in the holiday set.
func (s *ScheduleState) IsHoliday(dateKey string) bool {
	for _, h := range s.Holidays {
		if h == dateKey {
			return true
		}
	}
	return false
}

// normalize repairs a loaded document so downstream code can rely on
// the invariants: settings usable, both editable day types present
// with both directions, maps non-nil.
func (s *ScheduleState) normalize() {
	if s.Settings.RouteKm <= 0 || s.Settings.SpeedKmh <= 0 {
		s.Settings = DefaultSettings()
	}
	if s.Settings.TripMinutes <= 0 {
		s.Settings.TripMinutes = DefaultSettings().TripMinutes
	}
	if s.BaseTimetable == nil {
		s.BaseTimetable = map[DayType]DirectionTimes{}
	}
	for _, dt := range []DayType{DayTypeWorkDay, DayTypeShortDay} {
		if s.BaseTimetable[dt] == nil {
			s.BaseTimetable[dt] = DirectionTimes{}
		}
		for _, dir := range []Direction{DirectionOutbound, DirectionInbound} {
			if s.BaseTimetable[dt][dir] == nil {
				s.BaseTimetable[dt][dir] = []timetable.TimeOfDay{}
			}
		}
	}
	if s.Overrides == nil {
		s.Overrides = map[string]DirectionTimes{}
	}
	if s.Holidays == nil {
		s.Holidays = []string{}
	}
}

func mustTimes(raw ...string) []timetable.TimeOfDay {
	times, err := timetable.ParseList(raw)
	if err != nil {
		panic(err)
	}
	return times
}
