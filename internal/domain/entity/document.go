package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tipo de documento con efecto en inventario.
type DocumentKind string

const (
	DocSale           DocumentKind = "sale"
	DocPurchase       DocumentKind = "purchase"
	DocSalesReturn    DocumentKind = "sales_return"
	DocPurchaseReturn DocumentKind = "purchase_return"
	DocGoodsReceipt   DocumentKind = "goods_receipt"
	DocGoodsIssue     DocumentKind = "goods_issue"
)

// PaymentTerms contado o crédito.
type PaymentTerms string

const (
	TermsCash     PaymentTerms = "cash"
	TermsDeferred PaymentTerms = "deferred"
)

// Document venta, compra, devolución o vale de mercancía.
// AppliedQuantity de cada línea y BalanceDelta guardan lo efectivamente aplicado para revertirlo exacto.
type Document struct {
	ID           int64
	Kind         DocumentKind
	Number       string
	BranchID     int64
	AccountID    *int64
	PaymentTerms PaymentTerms
	Lines        []DocumentLine
	Total        decimal.Decimal
	BalanceDelta decimal.Decimal
	Notes        string
	CreatedAt    time.Time
}

// DocumentLine línea de un documento.
type DocumentLine struct {
	ProductID       int64
	Quantity        int64
	UnitPrice       decimal.Decimal
	AppliedQuantity int64
}

// Subtotal cantidad por precio unitario.
func (l DocumentLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

var documentPrefixes = map[DocumentKind]string{
	DocSale:           "FV",
	DocPurchase:       "FC",
	DocSalesReturn:    "DV",
	DocPurchaseReturn: "DC",
	DocGoodsReceipt:   "VE",
	DocGoodsIssue:     "VS",
}

// DocumentNumber consecutivo por defecto según el tipo (FV-000001, FC-000001, ...).
func DocumentNumber(kind DocumentKind, id int64) string {
	prefix, ok := documentPrefixes[kind]
	if !ok {
		prefix = "DOC"
	}
	return fmt.Sprintf("%s-%06d", prefix, id)
}
