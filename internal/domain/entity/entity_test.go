package entity_test

import (
	"testing"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumbering(t *testing.T) {
	assert.Equal(t, "TR-000042", entity.TransferNumber(42))
	assert.Equal(t, "RV-000007", entity.VoucherNumber(entity.VoucherReceipt, 7))
	assert.Equal(t, "PV-000007", entity.VoucherNumber(entity.VoucherPayment, 7))
	assert.Equal(t, "FV-000001", entity.DocumentNumber(entity.DocSale, 1))
	assert.Equal(t, "DC-000123", entity.DocumentNumber(entity.DocPurchaseReturn, 123))
	assert.Equal(t, "DOC-000009", entity.DocumentNumber(entity.DocumentKind("otro"), 9))
}

func TestMovementEntry_Signed(t *testing.T) {
	in := &entity.MovementEntry{Type: entity.MovementIn, Quantity: 5}
	out := &entity.MovementEntry{Type: entity.MovementOut, Quantity: 5}
	assert.Equal(t, int64(5), in.Signed())
	assert.Equal(t, int64(-5), out.Signed())
	assert.Equal(t, entity.MovementOut, entity.MovementIn.Opposite())
	assert.Equal(t, entity.MovementIn, entity.MovementOut.Opposite())
	assert.False(t, entity.MovementType("side").IsValid())
	assert.False(t, entity.ReferenceType("gift").IsValid())
}

func TestProduct_Scope(t *testing.T) {
	branch := int64(3)
	shared := &entity.Product{}
	local := &entity.Product{BranchID: &branch}

	assert.True(t, shared.IsShared())
	assert.True(t, shared.BelongsTo(99))
	assert.True(t, local.BelongsTo(3))
	assert.False(t, local.BelongsTo(4))
}

func TestProduct_BelowMinStock(t *testing.T) {
	assert.False(t, (&entity.Product{Quantity: 0, MinStock: 0}).BelowMinStock())
	assert.True(t, (&entity.Product{Quantity: 5, MinStock: 5}).BelowMinStock())
	assert.False(t, (&entity.Product{Quantity: 6, MinStock: 5}).BelowMinStock())
}

func TestAccount_OverCreditLimit(t *testing.T) {
	a := &entity.Account{Balance: decimal.NewFromInt(500)}
	assert.False(t, a.OverCreditLimit(), "cupo cero = sin cupo")

	a.CreditLimit = decimal.NewFromInt(400)
	assert.True(t, a.OverCreditLimit())

	a.Balance = decimal.NewFromInt(400)
	assert.False(t, a.OverCreditLimit())
}

func TestVoucherKind_AccountType(t *testing.T) {
	assert.Equal(t, entity.AccountClient, entity.VoucherReceipt.AccountType())
	assert.Equal(t, entity.AccountSupplier, entity.VoucherPayment.AccountType())
}

func TestDocumentLine_Subtotal(t *testing.T) {
	l := entity.DocumentLine{Quantity: 3, UnitPrice: decimal.RequireFromString("2500.50")}
	assert.Equal(t, "7501.50", l.Subtotal().StringFixed(2))
}
