package routes

import (
	"partyhub.app/middlewares"
	"partyhub.app/pkg/responses"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes installs the global middleware chain and every route group.
func SetupRoutes(app *fiber.App) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(middlewares.RateLimiter(nil))

	registerPartyRoutes(app)

	// Catch-all, must stay last.
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return responses.Error(c, fiber.StatusNotFound, "resource not found")
}
