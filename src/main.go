package main

import (
	"fmt"
	"log"
	"net/url"
	"os"

	_ "Backend-AirForm/docs"
	"Backend-AirForm/src/database"
	"Backend-AirForm/src/jobs"
	"Backend-AirForm/src/realtime"
	"Backend-AirForm/src/routes"
	"Backend-AirForm/src/services/ai"
	"Backend-AirForm/src/services/analytics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
)

// @title        AirForm API
// @version      1.0
// @description  Form builder backend: forms, submissions, analytics and AI summaries.
// @BasePath     /
func main() {
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	// Redis and asynq are optional: without them rate limiting, the summary
	// cache and background jobs switch off, everything else keeps working.
	database.InitRedis()
	database.InitAsynq()

	db := database.GetDatabase()
	hub := realtime.NewHub()

	if database.RedisClient != nil {
		worker := jobs.NewWorker(db, database.RedisClient,
			ai.NewService(os.Getenv("GEMINI_API_KEY")),
			analytics.NewService(db), hub)
		jobs.StartServer(database.RedisURI, worker)
	}

	app := fiber.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	fmt.Println(origins)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	routes.InitRoutes(app, routes.Deps{
		DB:    db,
		Hub:   hub,
		Redis: database.RedisClient,
		Tasks: database.AsynqClient,
	})

	appURI := os.Getenv("APP_URI")
	if appURI == "" {
		appURI = "8888"
	}

	log.Println("Server is running on port " + appURI)
	if err := app.Listen(fmt.Sprintf(":%s", url.PathEscape(appURI))); err != nil {
		log.Fatal(err)
	}
}
