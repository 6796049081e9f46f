package routes

import (
	"Backend-AirForm/src/controllers"
	"Backend-AirForm/src/middleware"
	"Backend-AirForm/src/services/users"

	"github.com/gofiber/fiber/v2"
)

func userRoutes(app *fiber.App, deps Deps) {
	svc := users.NewService(deps.DB, deps.Redis)
	ctrl := controllers.NewUserController(svc)

	app.Post("/register", ctrl.Register)
	app.Post("/login", ctrl.Login)
	app.Get("/profile", middleware.AuthJWT, ctrl.Profile)
}
