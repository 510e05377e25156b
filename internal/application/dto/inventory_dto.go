package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovementRequest body para POST /api/inventory/movements.
// Cantidad <= 0 se rechaza en el dominio (INVALID_QUANTITY); aquí solo el tope superior.
type StockMovementRequest struct {
	ProductID       int64  `json:"product_id" validate:"required"`
	Quantity        int64  `json:"quantity" validate:"max=1000000000"`
	Type            string `json:"type" validate:"required,oneof=in out"`
	ReferenceNumber string `json:"reference_number" validate:"max=50"`
	ReferenceType   string `json:"reference_type,omitempty"`
}

// ReverseMovementRequest body para POST /api/inventory/movements/reverse.
type ReverseMovementRequest struct {
	ProductID       int64  `json:"product_id" validate:"required"`
	Quantity        int64  `json:"quantity" validate:"max=1000000000"`
	OriginalType    string `json:"original_type" validate:"required,oneof=in out"`
	ReferenceNumber string `json:"reference_number" validate:"required,max=50"`
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID                int64     `json:"id"`
	ProductID         int64     `json:"product_id"`
	BranchID          *int64    `json:"branch_id"`
	Type              string    `json:"type"`
	Quantity          int64     `json:"quantity"`
	RequestedQuantity int64     `json:"requested_quantity"`
	QuantityBefore    int64     `json:"quantity_before"`
	QuantityAfter     int64     `json:"quantity_after"`
	ReferenceNumber   string    `json:"reference_number"`
	ReferenceType     string    `json:"reference_type"`
	Note              string    `json:"note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos (más recientes primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReplenishmentSuggestionDTO producto en o bajo su stock mínimo con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	ProductID          int64           `json:"product_id"`
	BranchID           *int64          `json:"branch_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	IncomingInTransit  int64           `json:"incoming_in_transit"`
	IdealStock         int64           `json:"ideal_stock"` // MinStock * 1.5 redondeado hacia arriba
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
