package engine

import (
	"testing"
	"time"
)

var testRoute = Route{
	Origin:       Coordinate{Lat: 50.976412, Lon: 44.777647},
	Terminus:     Coordinate{Lat: 51.082652, Lon: 44.816874},
	OriginName:   "Riverside",
	TerminusName: "Hillcrest",
}

func TestCurrentFixAbsent(t *testing.T) {
	st := DefaultState()
	if _, ok := CurrentFix(st, time.Now(), DefaultFixFreshness); ok {
		t.Error("CurrentFix reported a fix on an empty document")
	}
}

func TestCurrentFixFreshness(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	st := DefaultState()
	st.VehicleFix = &VehicleFix{Lat: 51.0, Lon: 44.8, CapturedAt: now.Add(-2 * time.Minute)}

	status, ok := CurrentFix(st, now, DefaultFixFreshness)
	if !ok {
		t.Fatal("CurrentFix missed the retained fix")
	}
	if !status.Fresh {
		t.Errorf("2 minute old fix judged stale (age %s)", status.Age)
	}

	// A stale fix stays readable but is flagged.
	st.VehicleFix.CapturedAt = now.Add(-6 * time.Minute)
	status, ok = CurrentFix(st, now, DefaultFixFreshness)
	if !ok {
		t.Fatal("stale fix dropped instead of flagged")
	}
	if status.Fresh {
		t.Errorf("6 minute old fix judged fresh (age %s)", status.Age)
	}

	// Staleness is half-open: exactly the freshness window is stale.
	st.VehicleFix.CapturedAt = now.Add(-DefaultFixFreshness)
	if status, _ = CurrentFix(st, now, DefaultFixFreshness); status.Fresh {
		t.Error("fix exactly at the freshness bound judged fresh")
	}
}

func TestRouteProgressClamped(t *testing.T) {
	// At the origin progress is zero.
	if p := testRoute.Progress(13.3, testRoute.Origin.Lat, testRoute.Origin.Lon); p != 0 {
		t.Errorf("progress at origin = %.2f, want 0", p)
	}

	// Far beyond the terminus still reads 100.
	if p := testRoute.Progress(13.3, 52.5, 44.8); p != 100 {
		t.Errorf("progress past terminus = %.2f, want 100", p)
	}

	// A degenerate zero-length route never divides by zero.
	if p := testRoute.Progress(0, 51.0, 44.8); p != 0 {
		t.Errorf("progress with zero route length = %.2f, want 0", p)
	}
}

func TestRouteProgressMonotonicTowardsTerminus(t *testing.T) {
	quarter := testRoute.Progress(13.3, 51.003, 44.787)
	threeQuarters := testRoute.Progress(13.3, 51.056, 44.807)
	if quarter >= threeQuarters {
		t.Errorf("progress not increasing along the route: %.2f then %.2f", quarter, threeQuarters)
	}
	if quarter <= 0 || threeQuarters >= 100 {
		t.Errorf("intermediate positions outside open interval: %.2f, %.2f", quarter, threeQuarters)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude is about 111.19 km on a 6371 km sphere.
	d := Haversine(50.0, 44.0, 51.0, 44.0)
	if d < 111.1 || d > 111.3 {
		t.Errorf("Haversine(1 degree latitude) = %.3f km, want ~111.19", d)
	}
	if d := Haversine(50.5, 44.5, 50.5, 44.5); d != 0 {
		t.Errorf("Haversine(same point) = %f, want 0", d)
	}
}
