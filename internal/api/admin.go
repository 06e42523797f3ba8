package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttleroute-data/internal/engine"
)

func (s *APIServer) GetHolidays(c *fiber.Ctx) error {
	holidays, err := s.Engine.Holidays(c.Context())
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(HolidaysResponse{Holidays: holidays})
}

func (s *APIServer) PutHoliday(c *fiber.Ctx) error {
	return s.setHoliday(c, true)
}

func (s *APIServer) DeleteHoliday(c *fiber.Ctx) error {
	return s.setHoliday(c, false)
}

func (s *APIServer) setHoliday(c *fiber.Ctx, add bool) error {
	date := c.Params("date")
	changed, err := s.Engine.SetHoliday(c.Context(), date, add)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(HolidayChangeResponse{Date: date, Holiday: add, Changed: changed})
}

// PutOverride replaces one direction's departures for one date. An
// empty times list cancels the direction for that date.
func (s *APIServer) PutOverride(c *fiber.Ctx) error {
	dir, err := engine.ParseDirection(c.Params("direction"))
	if err != nil {
		return s.handleError(c, err)
	}
	var req TimesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body must be JSON with a times list")
	}
	if req.Times == nil {
		req.Times = []string{}
	}

	if err := s.Engine.SetOverride(c.Context(), c.Params("date"), dir, req.Times); err != nil {
		return s.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteOverride reverts one direction on one date to the base
// timetable.
func (s *APIServer) DeleteOverride(c *fiber.Ctx) error {
	dir, err := engine.ParseDirection(c.Params("direction"))
	if err != nil {
		return s.handleError(c, err)
	}
	if err := s.Engine.ClearOverride(c.Context(), c.Params("date"), dir); err != nil {
		return s.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *APIServer) PutBaseTimetable(c *fiber.Ctx) error {
	dayType, err := engine.ParseEditableDayType(c.Params("daytype"))
	if err != nil {
		return s.handleError(c, err)
	}
	dir, err := engine.ParseDirection(c.Params("direction"))
	if err != nil {
		return s.handleError(c, err)
	}
	var req TimesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body must be JSON with a times list")
	}

	if err := s.Engine.SetBaseTimetable(c.Context(), dayType, dir, req.Times); err != nil {
		return s.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *APIServer) PutNotifyTarget(c *fiber.Ctx) error {
	var req NotifyTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body must be JSON with a target")
	}
	if req.Target == "" {
		return badRequest(c, "target cannot be empty, use DELETE to clear it")
	}
	if err := s.Engine.SetNotifyTarget(c.Context(), req.Target); err != nil {
		return s.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *APIServer) DeleteNotifyTarget(c *fiber.Ctx) error {
	if err := s.Engine.SetNotifyTarget(c.Context(), ""); err != nil {
		return s.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *APIServer) GetStats(c *fiber.Ctx) error {
	stats, err := s.Engine.Stats(c.Context())
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(StatsResponse{
		Date:               stats.Date,
		DayType:            string(stats.DayType),
		GPSActive:          stats.GPSActive,
		FixFresh:           stats.FixFresh,
		Holidays:           stats.Holidays,
		OverrideDates:      stats.OverrideDates,
		WorkdayDepartures:  stats.WorkdayDepartures,
		ShortDayDepartures: stats.ShortDayDepartures,
		NotifyTarget:       stats.NotifyTarget,
	})
}
