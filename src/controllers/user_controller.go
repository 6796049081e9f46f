package controllers

import (
	"errors"
	"fmt"

	"Backend-AirForm/src/services/users"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	svc *users.Service
}

func NewUserController(svc *users.Service) *UserController {
	return &UserController{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201 {object} map[string]interface{}
// @Router       /register [post]
func (uc *UserController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, token, err := uc.svc.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error during registration"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":  token,
		"name":   user.Name,
		"userId": user.ID.Hex(),
	})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /login [post]
func (uc *UserController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	if uc.svc.IsRateLimited(req.Email) {
		remaining := uc.svc.GetRemainingCooldownTime(req.Email)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fmt.Sprintf("Too many login attempts. Please try again in %d minutes and %d seconds.",
				int(remaining.Minutes()), int(remaining.Seconds())%60),
			"remainingTime": int(remaining.Seconds()),
		})
	}

	user, token, err := uc.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		uc.svc.LogLoginAttempt(req.Email, c.IP(), false)
		if errors.Is(err, users.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error during login"})
	}
	uc.svc.LogLoginAttempt(req.Email, c.IP(), true)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"name":    user.Name,
		"userId":  user.ID.Hex(),
	})
}

// Profile returns the authenticated user's own record.
func (uc *UserController) Profile(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := uc.svc.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}
