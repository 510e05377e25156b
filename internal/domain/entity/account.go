package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType cliente o proveedor.
type AccountType string

const (
	AccountClient   AccountType = "client"
	AccountSupplier AccountType = "supplier"
)

// IsValid indica si el tipo de cuenta es conocido.
func (t AccountType) IsValid() bool {
	return t == AccountClient || t == AccountSupplier
}

// Account cliente o proveedor con saldo corriente.
// Cliente: saldo positivo = nos debe. Proveedor: saldo positivo = le debemos.
// Balance = OpeningBalance + suma de los AccountEntry aplicados.
type Account struct {
	ID             int64
	Type           AccountType
	Name           string
	Phone          string
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	CreditLimit    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OverCreditLimit indica si el saldo supera el cupo (cupo cero = sin cupo definido).
func (a *Account) OverCreditLimit() bool {
	return a.CreditLimit.IsPositive() && a.Balance.GreaterThan(a.CreditLimit)
}

// AccountEntry registro inmutable de cada ajuste aplicado a un saldo.
type AccountEntry struct {
	ID              int64
	AccountID       int64
	Delta           decimal.Decimal
	BalanceAfter    decimal.Decimal
	ReferenceType   ReferenceType
	ReferenceNumber string
	Note            string
	CreatedAt       time.Time
}
