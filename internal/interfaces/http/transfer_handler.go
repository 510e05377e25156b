package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/transfer"
)

// TransferHandler maneja traslados entre sucursales.
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Send POST /api/transfers: descuenta el origen y deja la mercancía en tránsito.
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	var in dto.SendTransferRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Send(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive POST /api/transfers/:id/receive
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Receive(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/transfers/:id/cancel
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/transfers/:id
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID GET /api/transfers/:id
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/transfers?branch_id=&direction=sent|received
func (h *TransferHandler) List(c *fiber.Ctx) error {
	branchID, err := branchScope(c)
	if err != nil {
		return writeError(c, err)
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), branchID, c.Query("direction"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InTransit GET /api/transfers/in-transit?branch_id=
func (h *TransferHandler) InTransit(c *fiber.Ctx) error {
	branchID, err := branchScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.InTransit(c.Context(), branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
