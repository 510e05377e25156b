package inventory

import (
	"math"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// StockResult resultado de aplicar un movimiento a una existencia.
type StockResult struct {
	Before  int64
	After   int64
	Applied int64 // cantidad efectivamente aplicada; menor a la solicitada solo si hubo recorte en cero
}

// Clamped indica si la salida fue recortada para no dejar existencia negativa.
func (r StockResult) Clamped(requested int64) bool {
	return r.Applied != requested
}

// StockCalculator aplica una entrada o salida sobre la existencia actual (servicio de dominio).
// Entrada: Nueva = Actual + Cantidad. Salida: Nueva = max(Actual - Cantidad, 0).
// En modo estricto una salida mayor que la existencia devuelve ErrInsufficientStock sin recortar.
// Una entrada que desbordaría int64 devuelve ErrInvalidQuantity.
func StockCalculator(current, quantity int64, direction entity.MovementType, strict bool) (StockResult, error) {
	if quantity <= 0 {
		return StockResult{}, domain.ErrInvalidQuantity
	}
	if !direction.IsValid() {
		return StockResult{}, domain.ErrInvalidInput
	}
	res := StockResult{Before: current}
	if direction == entity.MovementIn {
		if quantity > math.MaxInt64-max(current, 0) {
			return StockResult{}, domain.ErrInvalidQuantity
		}
		res.Applied = quantity
		res.After = current + quantity
		return res, nil
	}
	applied := quantity
	if applied > current {
		if strict {
			return StockResult{}, domain.ErrInsufficientStock
		}
		applied = max(current, 0)
	}
	res.Applied = applied
	res.After = current - applied
	return res, nil
}
