package dto

import "time"

// SendTransferRequest body para POST /api/transfers.
type SendTransferRequest struct {
	FromBranchID int64                 `json:"from_branch_id" validate:"required"`
	ToBranchID   int64                 `json:"to_branch_id" validate:"required"`
	Items        []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes        string                `json:"notes" validate:"max=300"`
}

// TransferItemRequest línea del traslado.
type TransferItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"max=1000000000"`
}

// TransferItemResponse línea del traslado; DestProductID se conoce al recibir.
type TransferItemResponse struct {
	ProductID     int64  `json:"product_id"`
	Quantity      int64  `json:"quantity"`
	DestProductID *int64 `json:"dest_product_id,omitempty"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID           int64                  `json:"id"`
	Number       string                 `json:"number"`
	FromBranchID int64                  `json:"from_branch_id"`
	ToBranchID   int64                  `json:"to_branch_id"`
	Status       string                 `json:"status"`
	Items        []TransferItemResponse `json:"items"`
	Notes        string                 `json:"notes,omitempty"`
	SentAt       time.Time              `json:"sent_at"`
	ReceivedAt   *time.Time             `json:"received_at,omitempty"`
	CancelledAt  *time.Time             `json:"cancelled_at,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// InTransitDTO mercancía enviada aún no recibida, por producto de origen.
type InTransitDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	Transfers int   `json:"transfers"`
}
