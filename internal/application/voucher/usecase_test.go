package voucher_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/account"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/voucher"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

func setup(t *testing.T) (*memory.Store, *voucher.UseCase, int64, int64) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	var client, supplier int64
	require.NoError(t, store.Run(ctx, func(repos repository.Repos) error {
		c := &entity.Account{Type: entity.AccountClient, Name: "Cliente", Balance: decimal.NewFromInt(300), OpeningBalance: decimal.NewFromInt(300)}
		s := &entity.Account{Type: entity.AccountSupplier, Name: "Proveedor", Balance: decimal.NewFromInt(80), OpeningBalance: decimal.NewFromInt(80)}
		require.NoError(t, repos.Accounts.Create(ctx, c))
		require.NoError(t, repos.Accounts.Create(ctx, s))
		client, supplier = c.ID, s.ID
		return nil
	}))
	return store, voucher.NewUseCase(store, account.NewBalanceLedger(), logger.Nop()), client, supplier
}

func balance(t *testing.T, store *memory.Store, id int64) decimal.Decimal {
	t.Helper()
	ctx := context.Background()
	var b decimal.Decimal
	require.NoError(t, store.View(ctx, func(repos repository.Repos) error {
		a, err := repos.Accounts.GetByID(ctx, id)
		require.NoError(t, err)
		b = a.Balance
		return nil
	}))
	return b
}

func TestVoucher_SimetriaReciboDeCaja(t *testing.T) {
	store, uc, client, _ := setup(t)
	ctx := context.Background()
	before := balance(t, store, client)

	v, err := uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: client, Amount: decimal.NewFromInt(120)})
	require.NoError(t, err)
	assert.Equal(t, "RV-000001", v.VoucherNumber)
	assert.Equal(t, "cash", v.PaymentMethod)
	assert.True(t, balance(t, store, client).Equal(before.Sub(decimal.NewFromInt(120))), "disminuye exactamente en el monto")

	require.NoError(t, uc.Delete(ctx, v.ID))
	assert.True(t, balance(t, store, client).Equal(before), "sin cambio de punta a punta")
}

func TestVoucher_EgresoAProveedor(t *testing.T) {
	store, uc, _, supplier := setup(t)
	ctx := context.Background()

	v, err := uc.Create(ctx, dto.CreateVoucherRequest{
		Kind: "payment", AccountID: supplier, Amount: decimal.NewFromInt(100), PaymentMethod: "transfer", VoucherNumber: "CE-77",
	})
	require.NoError(t, err)
	assert.Equal(t, "CE-77", v.VoucherNumber)
	assert.True(t, balance(t, store, supplier).Equal(decimal.NewFromInt(-20)), "sin recorte: el saldo puede quedar negativo")

	list, err := uc.List(ctx, &supplier, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
}

func TestVoucher_Validaciones(t *testing.T) {
	store, uc, client, supplier := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: client, Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: client, Amount: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: supplier, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrNotFound, "recibo de caja a un proveedor")

	_, err = uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: client, Amount: decimal.NewFromInt(5), VoucherNumber: "R-1"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: client, Amount: decimal.NewFromInt(5), VoucherNumber: "R-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, balance(t, store, client).Equal(decimal.NewFromInt(295)), "el duplicado no toca el saldo")

	assert.ErrorIs(t, uc.Delete(ctx, 999), domain.ErrNotFound)
}

func TestVoucher_ConsecutivoSaltaNumeroManual(t *testing.T) {
	_, uc, client, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: client, Amount: decimal.NewFromInt(1), VoucherNumber: "RV-000002"})
	require.NoError(t, err)

	var numbers []string
	for range 3 {
		v, err := uc.Create(ctx, dto.CreateVoucherRequest{Kind: "receipt", AccountID: client, Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)
		numbers = append(numbers, v.VoucherNumber)
	}
	assert.Equal(t, []string{"RV-000003", "RV-000004", "RV-000005"}, numbers)
}
