package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// MovementFilter filtros del libro de movimientos. Resultados en orden cronológico inverso.
type MovementFilter struct {
	ProductID       *int64
	BranchID        *int64
	ReferenceNumber string
	Limit           int
	Offset          int
}

// MovementTotals suma de entradas y salidas de un producto.
type MovementTotals struct {
	In  int64
	Out int64
}

// MovementRepository libro de movimientos (solo inserción; no hay Update ni Delete).
type MovementRepository interface {
	Append(ctx context.Context, entry *entity.MovementEntry) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementEntry, error)
	TotalsByProduct(ctx context.Context) (map[int64]MovementTotals, error)
}
