package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
)

// InventoryHandler maneja movimientos de inventario y alertas de stock.
type InventoryHandler struct {
	movements     *inventory.MovementUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.MovementUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{movements: movements, replenishment: replenishment}
}

// ApplyMovement godoc
// @Summary      Registrar movimiento manual
// @Description  Una salida mayor al stock se recorta a cero salvo en modo estricto (409 INSUFFICIENT_STOCK).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.ApplyStockMovementFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReverseMovement godoc
// @Summary      Revertir movimiento
// @Description  No aplica a referencias de documentos o traslados vigentes: se revierten al eliminarlos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReverseMovementRequest  true  "Movimiento original"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/reverse [post]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	var in dto.ReverseMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.ReverseStockMovementFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements GET /api/inventory/movements?product_id=&reference=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID, err := queryID(c, "product_id")
	if err != nil {
		return writeError(c, err)
	}
	limit, offset := pageParams(c)
	out, err := h.movements.ListMovements(c.Context(), productID, c.Query("reference"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock GET /api/inventory/low-stock?branch_id=
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	branchID, err := branchScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.replenishment.LowStock(c.Context(), branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
