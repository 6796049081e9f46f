package controllers

import (
	"errors"

	"Backend-AirForm/src/models"
	"Backend-AirForm/src/services/submissions"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubmissionController struct {
	svc *submissions.Service
}

func NewSubmissionController(svc *submissions.Service) *SubmissionController {
	return &SubmissionController{svc: svc}
}

// SubmitForm godoc
// @Summary      Submit responses to a published form
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        shareableLink path string true "Shareable link or custom URL"
// @Param        submission body models.SubmitFormRequest true "Responses"
// @Success      201 {object} models.Submission
// @Router       /api/f/{shareableLink}/submit [post]
func (sc *SubmissionController) SubmitForm(c *fiber.Ctx) error {
	link := c.Params("shareableLink")

	var req models.SubmitFormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input: " + err.Error()})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	net := submissions.NetworkInfo{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
		Referrer:  c.Get("Referer"),
	}

	sub, err := sc.svc.SubmitForm(c.Context(), link, &req, net)
	if err != nil {
		switch {
		case errors.Is(err, submissions.ErrFormNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found or not accepting submissions"})
		case errors.Is(err, submissions.ErrMissingRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error submitting form"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Form submitted successfully",
		"submissionId": sub.ID.Hex(),
	})
}

// GetFormSubmissions lists submissions for one of the caller's forms.
func (sc *SubmissionController) GetFormSubmissions(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	page, err := sc.svc.GetFormSubmissions(c.Context(), formID, userID, params)
	if err != nil {
		if errors.Is(err, submissions.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching submissions"})
	}
	return c.JSON(page)
}

// GetUserSubmissions lists recent submissions across all of the caller's forms.
func (sc *SubmissionController) GetUserSubmissions(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	page, err := sc.svc.GetUserSubmissions(c.Context(), userID, params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching submissions"})
	}
	return c.JSON(page)
}

// GetSubmissionDetails returns one submission with its form context.
func (sc *SubmissionController) GetSubmissionDetails(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	submissionID, err := primitive.ObjectIDFromHex(c.Params("submissionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid submission ID"})
	}

	details, err := sc.svc.GetSubmissionDetails(c.Context(), submissionID, userID)
	if err != nil {
		if errors.Is(err, submissions.ErrSubmissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching submission"})
	}
	return c.JSON(details)
}

// UpdateSubmissionStatus moves a submission through the review workflow.
func (sc *SubmissionController) UpdateSubmissionStatus(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	submissionID, err := primitive.ObjectIDFromHex(c.Params("submissionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid submission ID"})
	}

	var req models.UpdateSubmissionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input: " + err.Error()})
	}

	sub, err := sc.svc.UpdateSubmissionStatus(c.Context(), submissionID, userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, submissions.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status value"})
		case errors.Is(err, submissions.ErrSubmissionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating submission"})
		}
	}

	return c.JSON(fiber.Map{
		"message":    "Submission status updated",
		"submission": sub,
	})
}

// ExportSubmissions godoc
// @Summary      Export a form's submissions as CSV
// @Tags         submissions
// @Produce      text/csv
// @Param        formId path string true "Form ID"
// @Success      200 {string} string "CSV file"
// @Router       /api/forms/{formId}/submissions/export [get]
func (sc *SubmissionController) ExportSubmissions(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	data, filename, err := sc.svc.ExportCSV(c.Context(), formID, userID)
	if err != nil {
		if errors.Is(err, submissions.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error exporting submissions"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(data)
}
