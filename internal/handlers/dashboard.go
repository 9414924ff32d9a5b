package handlers

import (
	"strconv"

	"pagcore/internal/repositories"
	"pagcore/internal/services/account"
	"pagcore/internal/services/ledger"
	"pagcore/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the authenticated user's balance, profile and
// transaction history.
type DashboardHandler struct {
	ledgerSvc    ledger.Service
	accountSvc   account.Service
	transactions repositories.TransactionRepository
}

func NewDashboardHandler(ledgerSvc ledger.Service, accountSvc account.Service, transactions repositories.TransactionRepository) *DashboardHandler {
	return &DashboardHandler{
		ledgerSvc:    ledgerSvc,
		accountSvc:   accountSvc,
		transactions: transactions,
	}
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	balance, err := h.ledgerSvc.Balance(c.Context(), actorID)
	if err != nil {
		return response.Error(c, statusFor(err), err.Error())
	}

	fullName, username, err := h.accountSvc.DisplayName(c.Context(), actorID)
	if err != nil {
		return response.ServerError(c, "failed to load profile")
	}

	return response.Success(c, "dashboard", fiber.Map{
		"balance":   balance,
		"full_name": fullName,
		"username":  username,
	})
}

func (h *DashboardHandler) GetTransactions(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	txs, err := h.transactions.ListByUser(c.Context(), actorID, limit)
	if err != nil {
		return response.ServerError(c, "failed to load transactions")
	}
	return response.Success(c, "transactions", txs)
}
