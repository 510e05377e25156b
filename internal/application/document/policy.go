package document

import (
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// effect efecto de un tipo de documento sobre inventario y saldo.
type effect struct {
	direction   entity.MovementType
	refType     entity.ReferenceType
	accountType entity.AccountType
	sign        int64 // signo del total aplicado al saldo
	// onlyDeferred: el saldo solo cambia si la venta/compra es a crédito; la cuenta es opcional de contado.
	onlyDeferred bool
}

var effects = map[entity.DocumentKind]effect{
	entity.DocSale:           {entity.MovementOut, entity.RefSales, entity.AccountClient, 1, true},
	entity.DocPurchase:       {entity.MovementIn, entity.RefPurchase, entity.AccountSupplier, 1, true},
	entity.DocSalesReturn:    {entity.MovementIn, entity.RefSalesReturn, entity.AccountClient, -1, false},
	entity.DocPurchaseReturn: {entity.MovementOut, entity.RefPurchaseReturn, entity.AccountSupplier, -1, false},
	entity.DocGoodsReceipt:   {entity.MovementIn, entity.RefGoodsReceipt, entity.AccountSupplier, 1, false},
	entity.DocGoodsIssue:     {entity.MovementOut, entity.RefGoodsIssue, entity.AccountClient, 1, false},
}

func policyFor(kind entity.DocumentKind) (effect, bool) {
	e, ok := effects[kind]
	return e, ok
}

// requiresAccount indica si el documento debe ir asociado a una cuenta.
func (e effect) requiresAccount(terms entity.PaymentTerms) bool {
	return !e.onlyDeferred || terms == entity.TermsDeferred
}

// balanceDelta delta a aplicar al saldo de la cuenta al crear el documento.
func (e effect) balanceDelta(total decimal.Decimal, terms entity.PaymentTerms, hasAccount bool) decimal.Decimal {
	if !hasAccount || (e.onlyDeferred && terms != entity.TermsDeferred) {
		return decimal.Zero
	}
	return total.Mul(decimal.NewFromInt(e.sign))
}
