package handlers

import (
	"errors"

	"pagcore/internal/services/account"
	"pagcore/internal/services/auth"
	"pagcore/internal/services/ledger"
	"pagcore/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the authenticated user's account record and
// password updates.
type ProfileHandler struct {
	accountSvc account.Service
	ledgerSvc  ledger.Service
	authSvc    auth.Service
}

func NewProfileHandler(accountSvc account.Service, ledgerSvc ledger.Service, authSvc auth.Service) *ProfileHandler {
	return &ProfileHandler{
		accountSvc: accountSvc,
		ledgerSvc:  ledgerSvc,
		authSvc:    authSvc,
	}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	user, err := h.accountSvc.Profile(c.Context(), actorID)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}

	balance, err := h.ledgerSvc.Balance(c.Context(), actorID)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}

	return response.Success(c, "profile", fiber.Map{
		"full_name":  user.FullName,
		"username":   user.Username,
		"email":      user.Email,
		"status":     user.Status,
		"balance":    balance,
		"created_at": user.CreatedAt,
	})
}

type updatePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	var input updatePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if len(input.NewPassword) < 8 {
		return response.BadRequest(c, "new password must be at least 8 characters")
	}

	if err := h.authSvc.ChangePassword(c.Context(), actorID, input.OldPassword, input.NewPassword); err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "failed to update password")
	}
	return response.Success(c, "password updated", nil)
}
