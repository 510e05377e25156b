package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// Direcciones para listar traslados desde el punto de vista de una sucursal.
const (
	TransferDirectionSent     = "sent"
	TransferDirectionReceived = "received"
)

// TransferFilter filtros de traslados. Direction vacío = ambos sentidos.
type TransferFilter struct {
	BranchID  *int64
	Direction string
	Status    entity.TransferStatus
	Limit     int
	Offset    int
}

// TransferRepository define el puerto de persistencia para BranchTransfer.
// Create asigna ID y, si Number está vacío, el consecutivo TR-xxxxxx.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.BranchTransfer) error
	GetByID(ctx context.Context, id int64) (*entity.BranchTransfer, error)
	GetByNumber(ctx context.Context, number string) (*entity.BranchTransfer, error)
	// Update persiste estado, fechas y productos destino de las líneas.
	Update(ctx context.Context, transfer *entity.BranchTransfer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.BranchTransfer, error)
}
