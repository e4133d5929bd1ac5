package handlers

import (
	"imc-punching/internal/core/services"
	"imc-punching/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents login request body
type LoginRequest struct {
	ID       flexString `json:"id"`
	Password string     `json:"password"`
	ClientID flexString `json:"client_id"`
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with account id and password and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.UserContext(), &services.LoginInput{
		ID:       string(req.ID),
		Password: req.Password,
		ClientID: string(req.ClientID),
	})
	if err != nil {
		return err
	}

	return response.WithToken(c, result.Token, result)
}
