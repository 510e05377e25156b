package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// BranchID nil = producto compartido por todas las sucursales.
// Quantity solo cambia a través del procesador de movimientos; InitialQuantity es la semilla y no cambia.
type Product struct {
	ID              int64
	BranchID        *int64
	SKU             string
	Name            string
	Quantity        int64
	InitialQuantity int64
	MinStock        int64
	PurchasePrice   decimal.Decimal
	SalePrice       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsShared indica si el producto no pertenece a ninguna sucursal.
func (p *Product) IsShared() bool { return p.BranchID == nil }

// BelongsTo indica si el producto puede moverse desde/hacia la sucursal dada.
func (p *Product) BelongsTo(branchID int64) bool {
	return p.BranchID == nil || *p.BranchID == branchID
}

// BelowMinStock indica si la existencia está en o bajo el mínimo configurado.
func (p *Product) BelowMinStock() bool {
	return p.MinStock > 0 && p.Quantity <= p.MinStock
}
