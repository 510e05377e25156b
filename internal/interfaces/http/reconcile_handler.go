package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/reconcile"
)

// ReconcileHandler expone la conciliación de stock y saldos contra sus ledgers.
type ReconcileHandler struct {
	uc *reconcile.UseCase
}

func NewReconcileHandler(uc *reconcile.UseCase) *ReconcileHandler {
	return &ReconcileHandler{uc: uc}
}

// Products GET /api/reconciliation/products?branch_id=
func (h *ReconcileHandler) Products(c *fiber.Ctx) error {
	branchID, err := queryID(c, "branch_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Products(c.Context(), branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Accounts GET /api/reconciliation/accounts?type=
func (h *ReconcileHandler) Accounts(c *fiber.Ctx) error {
	out, err := h.uc.Accounts(c.Context(), c.Query("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
