package routes

import (
	"Backend-AirForm/src/middleware"
	"Backend-AirForm/src/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps carries the shared infrastructure handed to every route group.
// Redis and the task client may be nil; features backed by them degrade.
type Deps struct {
	DB    *mongo.Database
	Hub   *realtime.Hub
	Redis *redis.Client
	Tasks *asynq.Client
}

func InitRoutes(app *fiber.App, deps Deps) {
	userRoutes(app, deps)
	eventRoutes(app, deps)

	api := app.Group("/api")
	publicFormRoutes(api, deps)

	protected := api.Group("", middleware.AuthJWT)
	formRoutes(protected, deps)
	submissionRoutes(protected, deps)
	analyticsRoutes(protected, deps)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})
}
