package controllers

import (
	"errors"
	"log"

	"Backend-AirForm/src/jobs"
	"Backend-AirForm/src/services/analytics"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalyticsController struct {
	svc   *analytics.Service
	tasks *asynq.Client
	redis *redis.Client
}

func NewAnalyticsController(svc *analytics.Service, tasks *asynq.Client, rdb *redis.Client) *AnalyticsController {
	return &AnalyticsController{svc: svc, tasks: tasks, redis: rdb}
}

// GetFormAnalytics godoc
// @Summary      Per-form analytics with a submissions-over-time series
// @Tags         analytics
// @Produce      json
// @Param        formId path  string true  "Form ID"
// @Param        period query string false "7d, 30d or 90d"
// @Success      200 {object} analytics.FormAnalytics
// @Router       /api/forms/{formId}/analytics [get]
func (ac *AnalyticsController) GetFormAnalytics(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	period := c.Query("period", "7d")
	result, err := ac.svc.GetFormAnalytics(c.Context(), formID, userID, period)
	if err != nil {
		if errors.Is(err, analytics.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching analytics"})
	}
	return c.JSON(result)
}

// GetDashboardAnalytics aggregates totals and trends across all of the
// caller's forms.
func (ac *AnalyticsController) GetDashboardAnalytics(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	period := c.Query("period", "14d")
	result, err := ac.svc.GetDashboardAnalytics(c.Context(), userID, period)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching dashboard analytics"})
	}
	return c.JSON(result)
}

// RequestAISummary enqueues a background summary refresh for a form. The
// generated summary lands in the cache and the owner is notified over SSE.
func (ac *AnalyticsController) RequestAISummary(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	if ac.tasks == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Background processing unavailable"})
	}

	task, err := jobs.NewGenerateSummaryTask(formID.Hex(), userID.Hex())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error scheduling summary"})
	}
	if _, err := ac.tasks.Enqueue(task); err != nil {
		log.Printf("[analytics] enqueue summary task failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error scheduling summary"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Summary generation queued"})
}

// GetAISummary returns the cached summary for a form, or 404 until the
// worker has produced one. The cache is keyed by form id only, so the
// ownership check happens here, before the read.
func (ac *AnalyticsController) GetAISummary(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	formID, err := primitive.ObjectIDFromHex(c.Params("formId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	if err := ac.svc.VerifyFormOwner(c.Context(), formID, userID); err != nil {
		if errors.Is(err, analytics.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching summary"})
	}

	if ac.redis == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Summary cache unavailable"})
	}

	data, err := ac.redis.Get(c.Context(), jobs.SummaryCacheKey(formID.Hex())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Summary not ready"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching summary"})
	}

	c.Set("Content-Type", "application/json")
	return c.Send(data)
}
