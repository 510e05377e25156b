package entity

import "time"

// MovementType dirección de un movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementIn  MovementType = "in"  // entrada
	MovementOut MovementType = "out" // salida
)

// IsValid indica si la dirección es conocida.
func (t MovementType) IsValid() bool {
	return t == MovementIn || t == MovementOut
}

// Opposite devuelve la dirección contraria (usada por las reversas).
func (t MovementType) Opposite() MovementType {
	if t == MovementIn {
		return MovementOut
	}
	return MovementIn
}

// ReferenceType documento que originó el movimiento.
type ReferenceType string

const (
	RefSales          ReferenceType = "sales"
	RefPurchase       ReferenceType = "purchase"
	RefSalesReturn    ReferenceType = "sales_return"
	RefPurchaseReturn ReferenceType = "purchase_return"
	RefGoodsReceipt   ReferenceType = "goods_receipt"
	RefGoodsIssue     ReferenceType = "goods_issue"
	RefBranchTransfer ReferenceType = "branch_transfer"
	RefReversal       ReferenceType = "reversal"
	RefManual         ReferenceType = "manual"
	RefVoucher        ReferenceType = "voucher"
)

// IsValid indica si el tipo de referencia es conocido.
func (r ReferenceType) IsValid() bool {
	switch r {
	case RefSales, RefPurchase, RefSalesReturn, RefPurchaseReturn, RefGoodsReceipt,
		RefGoodsIssue, RefBranchTransfer, RefReversal, RefManual, RefVoucher:
		return true
	}
	return false
}

// DocumentKind tipo de documento que genera movimientos con esta referencia.
func (r ReferenceType) DocumentKind() (DocumentKind, bool) {
	switch r {
	case RefSales:
		return DocSale, true
	case RefPurchase:
		return DocPurchase, true
	case RefSalesReturn:
		return DocSalesReturn, true
	case RefPurchaseReturn:
		return DocPurchaseReturn, true
	case RefGoodsReceipt:
		return DocGoodsReceipt, true
	case RefGoodsIssue:
		return DocGoodsIssue, true
	}
	return "", false
}

// MovementEntry registro inmutable del libro de movimientos. Nunca se edita ni se borra:
// una corrección es una nueva entrada con la dirección opuesta.
// Quantity es lo efectivamente aplicado; RequestedQuantity lo solicitado (difieren solo si hubo recorte en cero).
type MovementEntry struct {
	ID                int64
	ProductID         int64
	BranchID          *int64
	Type              MovementType
	Quantity          int64
	RequestedQuantity int64
	QuantityBefore    int64
	QuantityAfter     int64
	ReferenceNumber   string
	ReferenceType     ReferenceType
	Note              string
	CreatedAt         time.Time
}

// Signed devuelve la cantidad con signo (+ entrada, - salida).
func (m *MovementEntry) Signed() int64 {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
