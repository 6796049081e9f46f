package routes

import (
	"Backend-AirForm/src/controllers"
	"Backend-AirForm/src/services/forms"
	"Backend-AirForm/src/services/slug"
	"Backend-AirForm/src/services/submissions"

	"github.com/gofiber/fiber/v2"
)

// formRoutes covers the owner-facing form CRUD under the protected group.
func formRoutes(router fiber.Router, deps Deps) {
	svc := forms.NewService(deps.DB, slug.CryptoSource{})
	ctrl := controllers.NewFormController(svc)

	group := router.Group("/forms")

	group.Post("/", ctrl.CreateForm)
	group.Get("/", ctrl.GetUserForms)
	group.Get("/:formId", ctrl.GetFormByID)
	group.Put("/:formId", ctrl.UpdateForm)
	group.Delete("/:formId", ctrl.DeleteForm)
}

// publicFormRoutes resolves and accepts published forms by link, no auth
// required. Submissions land through here, so this is the only route group
// that pushes real-time events.
func publicFormRoutes(router fiber.Router, deps Deps) {
	formSvc := forms.NewService(deps.DB, slug.CryptoSource{})
	formCtrl := controllers.NewFormController(formSvc)

	subSvc := submissions.NewService(deps.DB, deps.Hub, deps.Tasks)
	subCtrl := controllers.NewSubmissionController(subSvc)

	router.Get("/f/:shareableLink", formCtrl.GetFormByLink)
	router.Post("/f/:shareableLink/submit", subCtrl.SubmitForm)
}
