package handlers

import (
	"strconv"

	"pagcore/internal/services/request"
	"pagcore/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler exposes the payment-request lifecycle.
type PaymentHandler struct {
	requestSvc request.Service
}

func NewPaymentHandler(requestSvc request.Service) *PaymentHandler {
	return &PaymentHandler{requestSvc: requestSvc}
}

type createRequestInput struct {
	PayerUsername string  `json:"payer_username"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
}

func (h *PaymentHandler) CreateRequest(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	var input createRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.PayerUsername == "" {
		return response.BadRequest(c, "payer_username is required")
	}

	req, err := h.requestSvc.Create(c.Context(), actorID, input.PayerUsername, input.Amount, input.Description)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "payment requested", req)
}

func (h *PaymentHandler) AcceptRequest(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid request id")
	}

	tx, err := h.requestSvc.Accept(c.Context(), uint(id), actorID)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "request accepted", tx)
}

func (h *PaymentHandler) DeclineRequest(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid request id")
	}

	if err := h.requestSvc.Decline(c.Context(), uint(id), actorID); err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "request declined", nil)
}

func (h *PaymentHandler) ListRequests(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	list, err := h.requestSvc.ListFor(c.Context(), actorID)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}
	return response.Success(c, "payment requests", list)
}
