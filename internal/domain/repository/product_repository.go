package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ProductFilter filtros para listar productos.
// BranchID filtra los productos de la sucursal más los compartidos.
type ProductFilter struct {
	BranchID     *int64
	OnlyLowStock bool
	Limit        int
	Offset       int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	GetByBranchAndSKU(ctx context.Context, branchID *int64, sku string) (*entity.Product, error)
	// Update actualiza datos descriptivos (nombre, precios, mínimo); nunca la cantidad.
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id, quantity int64) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}
