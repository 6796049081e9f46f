package controllers

import (
	"net/http/httptest"
	"testing"

	"Backend-AirForm/src/services/analytics"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// The summary cache is keyed by form id only; the handler must reject a
// caller who does not own the form before touching the cache.
func TestGetAISummaryRejectsForeignForm(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("foreign form gets 404", func(mt *mtest.T) {
		ctrl := NewAnalyticsController(analytics.NewService(mt.DB), nil, nil)

		app := fiber.New()
		app.Get("/api/forms/:formId/summary", func(c *fiber.Ctx) error {
			c.Locals("userId", primitive.NewObjectID().Hex())
			return c.Next()
		}, ctrl.GetAISummary)

		// ownership lookup finds nothing for this caller
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "AirFormDB.forms", mtest.FirstBatch))

		req := httptest.NewRequest("GET", "/api/forms/"+primitive.NewObjectID().Hex()+"/summary", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
