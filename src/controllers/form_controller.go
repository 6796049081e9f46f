package controllers

import (
	"errors"

	"Backend-AirForm/src/models"
	"Backend-AirForm/src/services/forms"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FormController struct {
	svc *forms.Service
}

func NewFormController(svc *forms.Service) *FormController {
	return &FormController{svc: svc}
}

// CreateForm godoc
// @Summary      Create a new form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        form body models.CreateFormRequest true "Form definition"
// @Success      201 {object} models.Form
// @Router       /api/forms [post]
func (fc *FormController) CreateForm(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req models.CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input: " + err.Error()})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	form, err := fc.svc.CreateForm(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, forms.ErrSlugTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Custom URL already taken, please retry"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating form"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Form created successfully",
		"form":    form,
	})
}

// GetUserForms godoc
// @Summary      List the caller's forms
// @Tags         forms
// @Produce      json
// @Param        page   query int    false "Page number"
// @Param        limit  query int    false "Items per page"
// @Param        status query string false "Filter by status"
// @Success      200 {object} models.PaginatedResponse
// @Router       /api/forms [get]
func (fc *FormController) GetUserForms(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	page, err := fc.svc.GetUserForms(c.Context(), userID, params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching forms"})
	}
	return c.JSON(page)
}

// GetFormByID returns a single form to its owner, for editing.
func (fc *FormController) GetFormByID(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	form, err := fc.svc.GetFormByID(c.Context(), formID, userID)
	if err != nil {
		if errors.Is(err, forms.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching form"})
	}
	return c.JSON(fiber.Map{"form": form})
}

// GetFormByLink godoc
// @Summary      Resolve a published form by shareable link or custom URL
// @Tags         public
// @Produce      json
// @Param        shareableLink path string true "Shareable link or custom URL"
// @Success      200 {object} models.PublicForm
// @Router       /api/f/{shareableLink} [get]
func (fc *FormController) GetFormByLink(c *fiber.Ctx) error {
	link := c.Params("shareableLink")

	form, err := fc.svc.GetFormByLink(c.Context(), link)
	if err != nil {
		if errors.Is(err, forms.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found or not published"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching form"})
	}
	return c.JSON(fiber.Map{"form": form})
}

// UpdateForm applies a partial edit for the owner.
func (fc *FormController) UpdateForm(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	var req models.UpdateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input: " + err.Error()})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	form, err := fc.svc.UpdateForm(c.Context(), formID, userID, &req)
	if err != nil {
		if errors.Is(err, forms.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating form"})
	}

	return c.JSON(fiber.Map{
		"message": "Form updated successfully",
		"form":    form,
	})
}

// DeleteForm removes a form and cascades to its submissions.
func (fc *FormController) DeleteForm(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	if err := fc.svc.DeleteForm(c.Context(), formID, userID); err != nil {
		if errors.Is(err, forms.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deleting form"})
	}

	return c.JSON(fiber.Map{"message": "Form deleted successfully"})
}
