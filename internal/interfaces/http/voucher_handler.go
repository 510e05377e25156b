package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/voucher"
)

// VoucherHandler maneja recibos de caja y comprobantes de egreso.
type VoucherHandler struct {
	uc *voucher.UseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc *voucher.UseCase) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

// Create POST /api/vouchers
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVoucherRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/vouchers?account_id=&kind=
func (h *VoucherHandler) List(c *fiber.Ctx) error {
	accountID, err := queryID(c, "account_id")
	if err != nil {
		return writeError(c, err)
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), accountID, c.Query("kind"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/vouchers/:id
func (h *VoucherHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
