package inventory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ApplyStockMovementFromRequest adapta el request HTTP al caso de uso ApplyStockMovement.
func (uc *MovementUseCase) ApplyStockMovementFromRequest(ctx context.Context, in dto.StockMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInput{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		Direction:       entity.MovementType(in.Type),
		ReferenceNumber: in.ReferenceNumber,
		ReferenceType:   entity.ReferenceType(in.ReferenceType),
	}
	return uc.ApplyStockMovement(ctx, input)
}

// ReverseStockMovementFromRequest adapta el request HTTP al caso de uso ReverseStockMovement.
func (uc *MovementUseCase) ReverseStockMovementFromRequest(ctx context.Context, in dto.ReverseMovementRequest) (*dto.MovementResponse, error) {
	return uc.ReverseStockMovement(ctx, in.ProductID, in.Quantity, entity.MovementType(in.OriginalType), in.ReferenceNumber)
}
