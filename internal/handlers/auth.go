package handlers

import (
	"errors"

	"pagcore/internal/services/auth"
	"pagcore/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authSvc auth.Service
}

func NewAuthHandler(authSvc auth.Service) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerInput struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.Username == "" || input.Email == "" || len(input.Password) < 8 {
		return response.BadRequest(c, "username, email and a password of at least 8 characters are required")
	}

	user, err := h.authSvc.Register(c.Context(), auth.RegisterInput{
		FullName: input.FullName,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) || errors.Is(err, auth.ErrUsernameTaken) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.ServerError(c, "registration failed")
	}
	return response.Success(c, "account created", user)
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	user, accessToken, refreshToken, err := h.authSvc.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	return response.Success(c, "logged in", fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
