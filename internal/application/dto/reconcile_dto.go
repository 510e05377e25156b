package dto

import "github.com/shopspring/decimal"

// ProductDriftDTO producto cuya existencia no coincide con la reconstruida desde el libro.
type ProductDriftDTO struct {
	ProductID int64  `json:"product_id"`
	BranchID  *int64 `json:"branch_id"`
	SKU       string `json:"sku"`
	Expected  int64  `json:"expected"`
	Actual    int64  `json:"actual"`
}

// AccountDriftDTO cuenta cuyo saldo no coincide con saldo inicial + ajustes.
type AccountDriftDTO struct {
	AccountID int64           `json:"account_id"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Expected  decimal.Decimal `json:"expected"`
	Actual    decimal.Decimal `json:"actual"`
}

// ProductReconciliationResponse resultado de reconciliar inventario. Drifts vacío = consistente.
type ProductReconciliationResponse struct {
	Checked int               `json:"checked"`
	Drifts  []ProductDriftDTO `json:"drifts"`
}

// AccountReconciliationResponse resultado de reconciliar saldos.
type AccountReconciliationResponse struct {
	Checked int               `json:"checked"`
	Drifts  []AccountDriftDTO `json:"drifts"`
}
