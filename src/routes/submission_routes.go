package routes

import (
	"Backend-AirForm/src/controllers"
	"Backend-AirForm/src/services/submissions"

	"github.com/gofiber/fiber/v2"
)

func submissionRoutes(router fiber.Router, deps Deps) {
	svc := submissions.NewService(deps.DB, deps.Hub, deps.Tasks)
	ctrl := controllers.NewSubmissionController(svc)

	router.Get("/submissions", ctrl.GetUserSubmissions)
	router.Get("/submissions/:submissionId", ctrl.GetSubmissionDetails)
	router.Patch("/submissions/:submissionId/status", ctrl.UpdateSubmissionStatus)

	router.Get("/forms/:formId/submissions", ctrl.GetFormSubmissions)
	router.Get("/forms/:formId/submissions/export", ctrl.ExportSubmissions)
}
