package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// StockProcessor es el único que modifica Product.Quantity. Cada aplicación deja exactamente
// una entrada en el libro de movimientos, en la misma unidad de trabajo que el cambio de cantidad.
type StockProcessor struct {
	strict bool
	now    func() time.Time
}

// NewStockProcessor construye el procesador. strict=true rechaza salidas mayores que la existencia
// en lugar de recortarlas en cero.
func NewStockProcessor(strict bool) *StockProcessor {
	return &StockProcessor{strict: strict, now: time.Now}
}

// Strict indica si el procesador opera en modo estricto.
func (p *StockProcessor) Strict() bool { return p.strict }

// Apply aplica una entrada o salida al producto y registra el movimiento.
func (p *StockProcessor) Apply(
	ctx context.Context,
	repos repository.Repos,
	productID, quantity int64,
	direction entity.MovementType,
	referenceNumber string,
	referenceType entity.ReferenceType,
) (*entity.MovementEntry, error) {
	return p.apply(ctx, repos, productID, quantity, direction, referenceNumber, referenceType, "")
}

// Reverse aplica la dirección opuesta con tipo reversal y nota "reversa de <referencia>".
// No verifica si ya fue revertido: quien llama garantiza una sola reversa por documento eliminado.
func (p *StockProcessor) Reverse(
	ctx context.Context,
	repos repository.Repos,
	productID, quantity int64,
	originalDirection entity.MovementType,
	referenceNumber string,
) (*entity.MovementEntry, error) {
	if !originalDirection.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	return p.apply(ctx, repos, productID, quantity, originalDirection.Opposite(),
		referenceNumber, entity.RefReversal, "reversa de "+referenceNumber)
}

func (p *StockProcessor) apply(
	ctx context.Context,
	repos repository.Repos,
	productID, quantity int64,
	direction entity.MovementType,
	referenceNumber string,
	referenceType entity.ReferenceType,
	note string,
) (*entity.MovementEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	// Bloquea la fila del producto hasta el fin de la transacción
	product, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
	}
	res, err := inventory.StockCalculator(product.Quantity, quantity, direction, p.strict)
	if err != nil {
		return nil, fmt.Errorf("producto %s: %w", product.SKU, err)
	}
	if err := repos.Products.UpdateQuantity(ctx, productID, res.After); err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}
	entry := &entity.MovementEntry{
		ProductID:         productID,
		BranchID:          product.BranchID,
		Type:              direction,
		Quantity:          res.Applied,
		RequestedQuantity: quantity,
		QuantityBefore:    res.Before,
		QuantityAfter:     res.After,
		ReferenceNumber:   referenceNumber,
		ReferenceType:     referenceType,
		Note:              note,
		CreatedAt:         p.now(),
	}
	if err := repos.Movements.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}
	return entry, nil
}
