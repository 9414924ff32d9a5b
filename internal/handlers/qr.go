package handlers

import (
	"log"

	"pagcore/internal/scanner"
	"pagcore/internal/services/settlement"
	"pagcore/internal/token"
	"pagcore/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// QRHandler exposes token issuance, lookup, redemption and cancellation.
type QRHandler struct {
	settlementSvc settlement.Service
}

func NewQRHandler(settlementSvc settlement.Service) *QRHandler {
	return &QRHandler{settlementSvc: settlementSvc}
}

type generateQRInput struct {
	Amount *float64 `json:"amount"`
}

// GenerateQR issues a new token for the authenticated user and returns its
// payload rendered as a QR image.
func (h *QRHandler) GenerateQR(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	var input generateQRInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	tok, err := h.settlementSvc.IssueToken(c.Context(), actorID, input.Amount)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}

	img, err := token.ImageBase64(tok.Code, 256)
	if err != nil {
		log.Printf("failed to render QR image: %v", err)
		return response.ServerError(c, "failed to render QR image")
	}

	return response.Success(c, "QR token issued", fiber.Map{
		"code":       tok.Code,
		"payload":    token.Encode(tok.Code),
		"qr_code":    img,
		"amount":     tok.Amount,
		"expires_at": tok.ExpiresAt,
	})
}

// GetQR returns the details a scanning client needs before committing to
// pay. The code may arrive as a bare id (manual entry) or a full payload.
func (h *QRHandler) GetQR(c *fiber.Ctx) error {
	code, err := scanner.SubmitManualCode(c.Params("code"))
	if err != nil {
		return response.BadRequest(c, "invalid code format")
	}

	details, err := h.settlementSvc.GetTokenDetails(c.Context(), code)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "token details", details)
}

type redeemInput struct {
	Code   string   `json:"code"`
	Amount *float64 `json:"amount"`
}

// RedeemQR settles a scanned or typed token for the authenticated payer.
func (h *QRHandler) RedeemQR(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	var input redeemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	code, err := scanner.SubmitManualCode(input.Code)
	if err != nil {
		return response.BadRequest(c, "invalid code format")
	}

	tx, err := h.settlementSvc.RedeemToken(c.Context(), code, actorID, input.Amount)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "payment processed", tx)
}

// CancelQR voids an active token; only its owner may do this.
func (h *QRHandler) CancelQR(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	code, err := scanner.SubmitManualCode(c.Params("code"))
	if err != nil {
		return response.BadRequest(c, "invalid code format")
	}

	if err := h.settlementSvc.CancelToken(c.Context(), code, actorID); err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "token cancelled", nil)
}
