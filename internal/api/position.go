package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RoleDriver is the caller role allowed to feed vehicle positions.
const RoleDriver = "driver"

// PostPosition ingests a vehicle fix. Only the driver role may feed
// the tracker; passengers get their answers from the eta endpoint.
func (s *APIServer) PostPosition(c *fiber.Ctx) error {
	var req PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body must be JSON with lat, lon and role")
	}
	if req.Role != RoleDriver {
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Error:   "Forbidden",
			Message: "only the driver may report vehicle positions",
		})
	}

	fix, err := s.Engine.IngestPosition(c.Context(), req.Lat, req.Lon)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(PositionResponse{Fix: fix})
}
