package routes

import (
	"partyhub.app/handlers"
	"partyhub.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerPartyRoutes(app *fiber.App) {
	partyHandler := handlers.NewPartyHandler()
	attendanceHandler := handlers.NewAttendanceHandler()

	parties := app.Group("/parties")

	// The static join-by-code route must precede the :id routes.
	parties.Post("/join-by-code", middlewares.RequireAuth(), attendanceHandler.JoinByCode)

	parties.Get("/", middlewares.OptionalAuth(), partyHandler.ListParties)
	parties.Post("/", middlewares.RequireAuth(), partyHandler.CreateParty)

	parties.Get("/:id", middlewares.OptionalAuth(), partyHandler.GetParty)
	parties.Put("/:id", middlewares.RequireAuth(), partyHandler.UpdateParty)
	parties.Delete("/:id", middlewares.RequireAuth(), partyHandler.DeleteParty)

	parties.Post("/:id/join", middlewares.RequireAuth(), attendanceHandler.Join)
	parties.Post("/:id/leave", middlewares.RequireAuth(), attendanceHandler.Leave)
	parties.Get("/:id/attendees", middlewares.OptionalAuth(), attendanceHandler.ListAttendees)
}
