package handlers

import (
	"errors"
	"log"

	"moodiary/internal/apperrors"
	"moodiary/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := h.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Validation failed", fieldErrors(err))
	}

	user, err := h.authService.RegisterUser(req.Username, req.Email, req.Password)
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Username, err)
		switch {
		case errors.Is(err, apperrors.ErrDuplicateUsername):
			return respondError(c, fiber.StatusConflict, "Registration failed",
				[]apperrors.FieldError{{Field: "username", Message: apperrors.ErrDuplicateUsername.Error()}})
		case errors.Is(err, apperrors.ErrDuplicateEmail):
			return respondError(c, fiber.StatusConflict, "Registration failed",
				[]apperrors.FieldError{{Field: "email", Message: apperrors.ErrDuplicateEmail.Error()}})
		case errors.Is(err, apperrors.ErrDuplicate):
			return respondError(c, fiber.StatusConflict, "Registration failed", nil)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not register user", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := h.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Validation failed", fieldErrors(err))
	}

	user, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		log.Printf("Failed login attempt for username: %s", req.Username)
		return respondError(c, fiber.StatusUnauthorized, apperrors.ErrInvalidCredentials.Error(), nil)
	}

	if err := h.authService.RecordLogin(user); err != nil {
		log.Printf("Error recording login for user %s: %v", user.ID, err)
		return respondError(c, fiber.StatusInternalServerError, "Could not complete login", nil)
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		log.Printf("Error generating token for user %s: %v", user.ID, err)
		return respondError(c, fiber.StatusInternalServerError, "Could not complete login", nil)
	}

	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}
