package routes

import (
	"Backend-AirForm/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// eventRoutes exposes the SSE stream. Like the public form routes it takes
// no auth header: EventSource cannot set one, the browser connects with the
// user id from its session.
func eventRoutes(app *fiber.App, deps Deps) {
	ctrl := controllers.NewEventController(deps.Hub)

	app.Get("/api/events/:userId", ctrl.Stream)
}
