package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherKind recibo de caja (cliente) o comprobante de egreso (proveedor).
type VoucherKind string

const (
	VoucherReceipt VoucherKind = "receipt"
	VoucherPayment VoucherKind = "payment"
)

// AccountType tipo de cuenta que admite el comprobante.
func (k VoucherKind) AccountType() AccountType {
	if k == VoucherPayment {
		return AccountSupplier
	}
	return AccountClient
}

// IsValid indica si el tipo de comprobante es conocido.
func (k VoucherKind) IsValid() bool {
	return k == VoucherReceipt || k == VoucherPayment
}

// Medios de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentCheque   = "cheque"
)

// Voucher comprobante financiero independiente de una factura.
// Crearlo resta Amount al saldo de la cuenta; eliminarlo lo devuelve.
type Voucher struct {
	ID            int64
	Kind          VoucherKind
	AccountID     int64
	Amount        decimal.Decimal
	PaymentMethod string
	VoucherNumber string
	Notes         string
	CreatedAt     time.Time
}

// VoucherNumber consecutivo por defecto: RV-000001 recibos, PV-000001 egresos.
func VoucherNumber(kind VoucherKind, id int64) string {
	prefix := "RV"
	if kind == VoucherPayment {
		prefix = "PV"
	}
	return fmt.Sprintf("%s-%06d", prefix, id)
}
