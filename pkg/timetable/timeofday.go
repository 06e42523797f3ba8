package timetable

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock departure time with minute precision.
// It marshals as "HH:MM", the form used throughout the persisted
// schedule document.
type TimeOfDay struct {
	Hour   int
	Minute int
}

const layout = "15:04"

// Parse accepts "HH:MM" (and "H:MM") strings.
func Parse(s string) (TimeOfDay, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("unable to parse time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ParseList parses a slice of "HH:MM" strings, failing on the first
// invalid entry.
func ParseList(raw []string) ([]TimeOfDay, error) {
	times := make([]TimeOfDay, 0, len(raw))
	for _, s := range raw {
		t, err := Parse(s)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinutesOfDay returns minutes since midnight, for ordering.
func (t TimeOfDay) MinutesOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.MinutesOfDay() < o.MinutesOfDay()
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Strings renders a list back to its document form.
func Strings(times []TimeOfDay) []string {
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = t.String()
	}
	return out
}
