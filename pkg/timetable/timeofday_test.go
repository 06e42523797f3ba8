package timetable

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	got, err := Parse("06:20")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Hour != 6 || got.Minute != 20 {
		t.Errorf("Parse(06:20) = %+v", got)
	}

	// Single-digit hours and surrounding whitespace are tolerated.
	got, err = Parse(" 7:05 ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.String() != "07:05" {
		t.Errorf("Parse(7:05).String() = %q", got.String())
	}

	for _, s := range []string{"", "25:00", "12:60", "noon", "12.30"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) accepted invalid input", s)
		}
	}
}

func TestParseListFailsOnFirstInvalid(t *testing.T) {
	if _, err := ParseList([]string{"06:20", "bad", "07:20"}); err == nil {
		t.Error("ParseList accepted a list with an invalid entry")
	}
	times, err := ParseList(nil)
	if err != nil {
		t.Fatalf("ParseList(nil): %v", err)
	}
	if times == nil || len(times) != 0 {
		t.Errorf("ParseList(nil) = %v, want empty non-nil slice", times)
	}
}

func TestOrdering(t *testing.T) {
	early, _ := Parse("06:20")
	late, _ := Parse("17:30")
	if !early.Before(late) || late.Before(early) {
		t.Error("Before disagrees with wall-clock order")
	}
	if early.MinutesOfDay() != 380 {
		t.Errorf("MinutesOfDay(06:20) = %d, want 380", early.MinutesOfDay())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := []TimeOfDay{{Hour: 6, Minute: 20}, {Hour: 17, Minute: 0}}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `["06:20","17:00"]` {
		t.Errorf("Marshal = %s", raw)
	}

	var out []TimeOfDay
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip = %v", Strings(out))
	}

	var bad TimeOfDay
	if err := json.Unmarshal([]byte(`"24:99"`), &bad); err == nil {
		t.Error("Unmarshal accepted an invalid time")
	}
}
