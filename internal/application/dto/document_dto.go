package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDocumentRequest body para POST /api/documents.
// Number vacío = consecutivo automático del tipo. PaymentTerms vacío = contado.
type CreateDocumentRequest struct {
	Kind         string                `json:"kind" validate:"required,oneof=sale purchase sales_return purchase_return goods_receipt goods_issue"`
	Number       string                `json:"number" validate:"max=50"`
	BranchID     int64                 `json:"branch_id" validate:"required"`
	AccountID    *int64                `json:"account_id"`
	PaymentTerms string                `json:"payment_terms" validate:"omitempty,oneof=cash deferred"`
	Lines        []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes        string                `json:"notes" validate:"max=300"`
}

// DocumentLineRequest línea del documento.
type DocumentLineRequest struct {
	ProductID int64           `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"max=1000000000"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DocumentLineResponse línea con la cantidad efectivamente aplicada al inventario.
type DocumentLineResponse struct {
	ProductID       int64           `json:"product_id"`
	Quantity        int64           `json:"quantity"`
	AppliedQuantity int64           `json:"applied_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// DocumentResponse salida de un documento.
type DocumentResponse struct {
	ID           int64                  `json:"id"`
	Kind         string                 `json:"kind"`
	Number       string                 `json:"number"`
	BranchID     int64                  `json:"branch_id"`
	AccountID    *int64                 `json:"account_id,omitempty"`
	PaymentTerms string                 `json:"payment_terms"`
	Lines        []DocumentLineResponse `json:"lines"`
	Total        decimal.Decimal        `json:"total"`
	BalanceDelta decimal.Decimal        `json:"balance_delta"`
	Notes        string                 `json:"notes,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
