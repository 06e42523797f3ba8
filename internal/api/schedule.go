package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttleroute-data/internal/engine"
	"github.com/shuttleroute-data/pkg/timetable"
)

// GetTodaySchedule returns both direction lists for a date (today by
// default) plus a vehicle fix summary.
func (s *APIServer) GetTodaySchedule(c *fiber.Ctx) error {
	date, err := queryDate(c)
	if err != nil {
		return s.handleError(c, err)
	}

	sched, err := s.Engine.TodaySchedule(c.Context(), date)
	if err != nil {
		return s.handleError(c, err)
	}

	resp := ScheduleResponse{
		Date:      sched.Date,
		DayType:   string(sched.DayType),
		NoService: sched.NoService,
		Outbound:  timetable.Strings(sched.Outbound),
		Inbound:   timetable.Strings(sched.Inbound),
	}
	if sched.Vehicle != nil {
		resp.Vehicle = vehicleSummaryResponse(sched.Vehicle)
	}
	return c.JSON(resp)
}

// GetEstimate answers the caller-local arrival estimate.
func (s *APIServer) GetEstimate(c *fiber.Ctx) error {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return badRequest(c, err.Error())
	}
	lon, err := queryFloat(c, "lon")
	if err != nil {
		return badRequest(c, err.Error())
	}
	date, err := queryDate(c)
	if err != nil {
		return s.handleError(c, err)
	}

	est, err := s.Engine.EstimateForCaller(c.Context(), lat, lon, date)
	if err != nil {
		return s.handleError(c, err)
	}

	return c.JSON(EstimateResponse{
		Date:           est.Date,
		DayType:        string(est.DayType),
		NoService:      est.NoService,
		Direction:      string(est.Direction),
		DirectionLabel: est.DirectionLabel,
		Progress:       est.Progress,
		Departures:     timetable.Strings(est.Departures),
		Source:         string(est.Source),
		Minutes:        est.Minutes,
		Eta:            est.Text,
	})
}

func vehicleSummaryResponse(v *engine.VehicleSummary) *VehicleSummaryResponse {
	return &VehicleSummaryResponse{
		Fix:        v.Fix,
		AgeSeconds: v.AgeSeconds,
		Fresh:      v.Fresh,
		Heading:    string(v.Heading),
		HeadingTo:  v.HeadingTo,
		EtaMinutes: v.ETAMinutes,
	}
}
