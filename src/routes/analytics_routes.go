package routes

import (
	"Backend-AirForm/src/controllers"
	"Backend-AirForm/src/services/analytics"

	"github.com/gofiber/fiber/v2"
)

func analyticsRoutes(router fiber.Router, deps Deps) {
	svc := analytics.NewService(deps.DB)
	ctrl := controllers.NewAnalyticsController(svc, deps.Tasks, deps.Redis)

	router.Get("/dashboard/analytics", ctrl.GetDashboardAnalytics)
	router.Get("/forms/:formId/analytics", ctrl.GetFormAnalytics)
	router.Post("/forms/:formId/summary", ctrl.RequestAISummary)
	router.Get("/forms/:formId/summary", ctrl.GetAISummary)
}
