package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// callerID reads the authenticated user id set by the JWT middleware.
func callerID(c *fiber.Ctx) (primitive.ObjectID, error) {
	raw, ok := c.Locals("userId").(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, errors.New("missing authenticated user")
	}
	return primitive.ObjectIDFromHex(raw)
}
