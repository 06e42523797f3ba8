package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/shuttleroute-data/pkg/timetable"
)

// ETASource says which path produced an arrival estimate. The two
// outcomes are observably distinct for the caller.
type ETASource string

const (
	ETASourceGPS      ETASource = "gps"
	ETASourceSchedule ETASource = "schedule"
	ETASourceNone     ETASource = "none"
)

// Estimate is the answer to "when will the vehicle arrive, here".
type Estimate struct {
	Date           string
	DayType        DayType
	NoService      bool
	Direction      Direction
	DirectionLabel string
	Progress       float64
	Departures     []timetable.TimeOfDay
	Source         ETASource
	Minutes        int
	Text           string
}

// estimateForCaller localizes the caller on the route, picks the
// direction whose departures matter to them, and produces either a
// GPS-derived ETA from a fresh fix or the schedule-derived fallback.
func estimateForCaller(route Route, st *ScheduleState, lat, lon float64, date, now time.Time, freshness time.Duration) (Estimate, error) {
	dayType := Classify(date, st.Holidays)
	if dayType == DayTypeHoliday {
		return Estimate{
			Date:      FormatDate(date),
			DayType:   dayType,
			NoService: true,
			Source:    ETASourceNone,
			Text:      "no service today",
		}, nil
	}

	// The split point sits at half the nominal route length measured
	// from the origin, not at the geometric midpoint.
	distFromOrigin := route.DistanceFromOrigin(lat, lon)
	dir := DirectionOutbound
	if distFromOrigin >= st.Settings.RouteKm/2 {
		dir = DirectionInbound
	}

	departures, err := Resolve(dir, date, st)
	if err != nil {
		return Estimate{}, err
	}

	est := Estimate{
		Date:           FormatDate(date),
		DayType:        dayType,
		Direction:      dir,
		DirectionLabel: route.Label(dir),
		Progress:       route.Progress(st.Settings.RouteKm, lat, lon),
		Departures:     departures,
	}

	if status, ok := CurrentFix(st, now, freshness); ok && status.Fresh {
		dist := Haversine(lat, lon, status.Fix.Lat, status.Fix.Lon)
		minutes := int(math.Round(dist / (st.Settings.SpeedKmh / 60)))
		if minutes < 1 {
			minutes = 1
		}
		est.Source = ETASourceGPS
		est.Minutes = minutes
		est.Text = fmt.Sprintf("%d min (GPS)", minutes)
		return est, nil
	}

	est.Source = ETASourceSchedule
	est.Text = fmt.Sprintf("per timetable (~%d min)", st.Settings.TripMinutes)
	return est, nil
}
