package handlers

import (
	"errors"
	"testing"

	domainErrors "pagcore/internal/errors"
	"pagcore/internal/services/account"
	"pagcore/internal/services/settlement"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domainErrors.ErrWalletNotFound, fiber.StatusNotFound},
		{account.ErrUserNotFound, fiber.StatusNotFound},
		{settlement.ErrTokenNotFound, fiber.StatusNotFound},
		{settlement.ErrAlreadyRedeemed, fiber.StatusConflict},
		{domainErrors.ErrInsufficientFunds, fiber.StatusUnprocessableEntity},
		{domainErrors.ErrAccountBlocked, fiber.StatusUnprocessableEntity},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "error %v", tt.err)
	}
}
