package engine

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestClassifyFlaggedHolidayBeatsWeekday(t *testing.T) {
	// 2026-05-01 is a Friday, 2026-02-23 a Monday; the flag wins.
	holidays := []string{"2026-05-01", "2026-02-23"}
	for _, date := range []string{"2026-05-01", "2026-02-23"} {
		if got := Classify(mustDate(t, date), holidays); got != DayTypeHoliday {
			t.Errorf("Classify(%s) = %s, want %s", date, got, DayTypeHoliday)
		}
	}
}

func TestClassifySundayIsImplicitHoliday(t *testing.T) {
	// 2026-03-15 is a Sunday and not in the holiday set.
	if got := Classify(mustDate(t, "2026-03-15"), nil); got != DayTypeHoliday {
		t.Errorf("Classify(sunday) = %s, want %s", got, DayTypeHoliday)
	}
}

func TestClassifySaturdayIsShortDay(t *testing.T) {
	// 2026-03-14 is a Saturday.
	if got := Classify(mustDate(t, "2026-03-14"), nil); got != DayTypeShortDay {
		t.Errorf("Classify(saturday) = %s, want %s", got, DayTypeShortDay)
	}
}

func TestClassifyWeekdayIsWorkDay(t *testing.T) {
	// 2026-03-10 is a Tuesday.
	if got := Classify(mustDate(t, "2026-03-10"), nil); got != DayTypeWorkDay {
		t.Errorf("Classify(tuesday) = %s, want %s", got, DayTypeWorkDay)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "not-a-date", "2026-13-01", "10.03.2026"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) accepted invalid input", s)
		}
	}
}
