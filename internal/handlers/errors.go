package handlers

import (
	"errors"

	domainErrors "pagcore/internal/errors"
	"pagcore/internal/services/account"
	"pagcore/internal/services/request"
	"pagcore/internal/services/settlement"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors to HTTP statuses. Race-loss outcomes
// (AlreadyRedeemed, NotPending) are conflicts, not server failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, settlement.ErrTokenNotFound),
		errors.Is(err, request.ErrRequestNotFound),
		errors.Is(err, account.ErrUserNotFound),
		errors.Is(err, domainErrors.ErrWalletNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, settlement.ErrAlreadyRedeemed),
		errors.Is(err, settlement.ErrTokenExpired),
		errors.Is(err, settlement.ErrTokenCancelled),
		errors.Is(err, request.ErrNotPending):
		return fiber.StatusConflict
	case errors.Is(err, settlement.ErrSelfRedemption),
		errors.Is(err, settlement.ErrAmountRequired),
		errors.Is(err, settlement.ErrAmountMismatch),
		errors.Is(err, settlement.ErrInvalidAmount),
		errors.Is(err, settlement.ErrNotOwner),
		errors.Is(err, request.ErrInvalidAmount),
		errors.Is(err, request.ErrSelfRequest),
		errors.Is(err, request.ErrPayerNotFound):
		return fiber.StatusBadRequest
	case errors.Is(err, request.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domainErrors.ErrInsufficientFunds),
		errors.Is(err, domainErrors.ErrAccountBlocked),
		errors.Is(err, domainErrors.ErrInvalidAmount):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
