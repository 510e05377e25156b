package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVoucherRequest body para POST /api/vouchers.
// receipt = recibo de caja de cliente; payment = comprobante de egreso a proveedor.
type CreateVoucherRequest struct {
	Kind          string          `json:"kind" validate:"required,oneof=receipt payment"`
	AccountID     int64           `json:"account_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash card transfer cheque"`
	VoucherNumber string          `json:"voucher_number" validate:"max=50"`
	Notes         string          `json:"notes" validate:"max=300"`
}

// VoucherResponse salida de un comprobante.
type VoucherResponse struct {
	ID            int64           `json:"id"`
	Kind          string          `json:"kind"`
	AccountID     int64           `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	VoucherNumber string          `json:"voucher_number"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// VoucherListResponse lista paginada de comprobantes.
type VoucherListResponse struct {
	Items []VoucherResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
