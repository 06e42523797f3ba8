package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shuttleroute-data/internal/engine"
)

// handleError maps the engine error taxonomy onto HTTP statuses.
// Invalid input is the caller's problem, a broken invariant is ours,
// and an unavailable store asks the caller to resubmit.
func (s *APIServer) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidDate),
		errors.Is(err, engine.ErrInvalidTime),
		errors.Is(err, engine.ErrUnknownDirection),
		errors.Is(err, engine.ErrUnknownDayType):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
	case errors.Is(err, engine.ErrStorageUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "Storage unavailable",
			Message: "the schedule store is not reachable, retry the operation",
		})
	default:
		s.Logger.Error("Request failed", "path", c.Path(), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Internal error",
			Message: err.Error(),
		})
	}
}

// queryDate reads an optional ?date= parameter, defaulting to today.
func queryDate(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), nil
	}
	return engine.ParseDate(raw)
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, errors.New(key + " query parameter is required")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(key + " must be a number")
	}
	return f, nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "Bad Request",
		Message: msg,
	})
}
