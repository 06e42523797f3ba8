package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

type APIServer struct {
	Engine *engine.Engine
	Logger logger.Logger
}

func NewServer(eng *engine.Engine, log logger.Logger) *APIServer {
	return &APIServer{
		Engine: eng,
		Logger: log,
	}
}

// App builds the fiber application with middleware and all routes
// registered.
func (s *APIServer) App() *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		if c.Path() != "/health" {
			s.Logger.Info("request", "method", c.Method(), "path", c.Path())
		}
		return c.Next()
	})
	app.Use(cors.New())

	app.Get("/health", s.GetHealth)

	v1 := app.Group("/v1")
	v1.Get("/schedule/today", s.GetTodaySchedule)
	v1.Get("/eta", s.GetEstimate)
	v1.Post("/position", s.PostPosition)

	v1.Get("/holidays", s.GetHolidays)
	v1.Put("/holidays/:date", s.PutHoliday)
	v1.Delete("/holidays/:date", s.DeleteHoliday)

	v1.Put("/overrides/:date/:direction", s.PutOverride)
	v1.Delete("/overrides/:date/:direction", s.DeleteOverride)

	v1.Put("/timetable/:daytype/:direction", s.PutBaseTimetable)

	v1.Put("/notify-target", s.PutNotifyTarget)
	v1.Delete("/notify-target", s.DeleteNotifyTarget)

	v1.Get("/stats", s.GetStats)

	return app
}
