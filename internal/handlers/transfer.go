package handlers

import (
	"pagcore/internal/models"
	"pagcore/internal/services/account"
	"pagcore/internal/services/ledger"
	"pagcore/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler executes direct peer-to-peer transfers addressed by
// username, without a token or request in between.
type TransferHandler struct {
	ledgerSvc  ledger.Service
	accountSvc account.Service
}

func NewTransferHandler(ledgerSvc ledger.Service, accountSvc account.Service) *TransferHandler {
	return &TransferHandler{ledgerSvc: ledgerSvc, accountSvc: accountSvc}
}

type transferInput struct {
	RecipientUsername string  `json:"recipient_username"`
	Amount            float64 `json:"amount"`
	Description       string  `json:"description"`
}

func (h *TransferHandler) MakeTransfer(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	var input transferInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.RecipientUsername == "" {
		return response.BadRequest(c, "recipient_username is required")
	}

	recipientID, err := h.accountSvc.Resolve(c.Context(), input.RecipientUsername)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	if recipientID == actorID {
		return response.BadRequest(c, "cannot transfer to yourself")
	}

	tx, err := h.ledgerSvc.Transfer(c.Context(), ledger.TransferInput{
		FromID:      actorID,
		ToID:        recipientID,
		Amount:      input.Amount,
		Type:        models.TransactionTypeTransfer,
		Description: input.Description,
	})
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "transfer completed", tx)
}
