package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// BranchID nulo = producto compartido. InitialQuantity es la existencia semilla.
type CreateProductRequest struct {
	BranchID        *int64          `json:"branch_id"`
	SKU             string          `json:"sku" validate:"required,min=1,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	InitialQuantity int64           `json:"initial_quantity" validate:"min=0"`
	MinStock        int64           `json:"min_stock" validate:"min=0"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
}

// UpdateProductRequest entrada para actualizar un producto (sin cantidad: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	MinStock      *int64           `json:"min_stock" validate:"omitempty,min=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              int64           `json:"id"`
	BranchID        *int64          `json:"branch_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	InitialQuantity int64           `json:"initial_quantity"`
	MinStock        int64           `json:"min_stock"`
	LowStock        bool            `json:"low_stock"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
