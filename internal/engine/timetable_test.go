package engine

import (
	"errors"
	"testing"

	"github.com/shuttleroute-data/pkg/timetable"
)

func timesOf(t *testing.T, raw ...string) []timetable.TimeOfDay {
	t.Helper()
	times, err := timetable.ParseList(raw)
	if err != nil {
		t.Fatalf("ParseList(%v): %v", raw, err)
	}
	return times
}

func assertTimes(t *testing.T, got []timetable.TimeOfDay, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v departures, want %v", timetable.Strings(got), want)
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("departure %d = %s, want %s", i, got[i], w)
		}
	}
}

func TestResolveBaseTimetable(t *testing.T) {
	st := DefaultState()

	// Tuesday uses the workday table.
	got, err := Resolve(DirectionOutbound, mustDate(t, "2026-03-10"), st)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertTimes(t, got, "06:20", "07:20", "08:00", "09:00", "11:00", "13:00", "15:00", "17:00")

	// Saturday uses the short-day table.
	got, err = Resolve(DirectionInbound, mustDate(t, "2026-03-14"), st)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertTimes(t, got, "07:30", "08:30", "09:30", "11:30", "15:30")
}

func TestResolveHolidayIsEmptyForBothDirections(t *testing.T) {
	st := DefaultState()
	// 2026-05-01 is flagged in the default holiday set.
	for _, dir := range []Direction{DirectionOutbound, DirectionInbound} {
		got, err := Resolve(dir, mustDate(t, "2026-05-01"), st)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", dir, err)
		}
		if len(got) != 0 {
			t.Errorf("Resolve(%s) on holiday = %v, want empty", dir, timetable.Strings(got))
		}
	}
}

func TestResolveOverridesIgnoredOnHoliday(t *testing.T) {
	st := DefaultState()
	st.Overrides["2026-05-01"] = DirectionTimes{
		DirectionOutbound: timesOf(t, "09:00", "10:00"),
	}

	got, err := Resolve(DirectionOutbound, mustDate(t, "2026-05-01"), st)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("holiday resolution consulted the override: %v", timetable.Strings(got))
	}
}

func TestResolveOverridePrecedence(t *testing.T) {
	st := DefaultState()
	// Cancel all outbound departures for one workday.
	st.Overrides["2026-03-10"] = DirectionTimes{
		DirectionOutbound: []timetable.TimeOfDay{},
	}

	date := mustDate(t, "2026-03-10")
	got, err := Resolve(DirectionOutbound, date, st)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("cancelled direction = %v, want empty", timetable.Strings(got))
	}

	// The other direction on the same date stays on the base list.
	got, err = Resolve(DirectionInbound, date, st)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertTimes(t, got, "06:50", "07:40", "08:30", "09:30", "11:30", "13:30", "15:30", "17:30")

	// Other dates are unaffected.
	got, err = Resolve(DirectionOutbound, mustDate(t, "2026-03-11"), st)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("override leaked to another date: %v", timetable.Strings(got))
	}
}

func TestResolveOverrideBeatsLaterBaseEdits(t *testing.T) {
	st := DefaultState()
	st.Overrides["2026-03-10"] = DirectionTimes{
		DirectionOutbound: timesOf(t, "10:00"),
	}

	// Mutating the base timetable afterwards must not change the
	// overridden resolution.
	st.BaseTimetable[DayTypeWorkDay][DirectionOutbound] = timesOf(t, "05:00")

	got, err := Resolve(DirectionOutbound, mustDate(t, "2026-03-10"), st)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertTimes(t, got, "10:00")
}

func TestResolveUnknownDirection(t *testing.T) {
	st := DefaultState()
	_, err := Resolve(Direction("sideways"), mustDate(t, "2026-03-10"), st)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("Resolve(unknown direction) error = %v, want ErrInvariantViolation", err)
	}
}
