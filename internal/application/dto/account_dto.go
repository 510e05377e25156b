package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest entrada para crear un cliente o proveedor.
type CreateAccountRequest struct {
	Type           string          `json:"type" validate:"required,oneof=client supplier"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Phone          string          `json:"phone" validate:"max=50"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
}

// UpdateCreditLimitRequest body para PUT /api/accounts/:id/credit-limit.
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// AdjustBalanceRequest ajuste manual de saldo (positivo o negativo).
type AdjustBalanceRequest struct {
	Delta           decimal.Decimal `json:"delta"`
	ReferenceNumber string          `json:"reference_number" validate:"max=50"`
	Note            string          `json:"note" validate:"required,max=300"`
}

// AccountResponse salida de una cuenta.
type AccountResponse struct {
	ID              int64           `json:"id"`
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	Balance         decimal.Decimal `json:"balance"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	OverCreditLimit bool            `json:"over_credit_limit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AccountListResponse lista paginada de cuentas.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AccountEntryResponse línea del extracto.
type AccountEntryResponse struct {
	ID              int64           `json:"id"`
	Delta           decimal.Decimal `json:"delta"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceNumber string          `json:"reference_number"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StatementResponse extracto de una cuenta (más recientes primero).
type StatementResponse struct {
	Account AccountResponse        `json:"account"`
	Entries []AccountEntryResponse `json:"entries"`
	Page    PageResponse           `json:"page"`
}
