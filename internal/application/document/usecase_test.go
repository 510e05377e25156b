package document_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/account"
	"github.com/jhoicas/retail-ledger/internal/application/document"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	uc       *document.UseCase
	branch   int64
	other    int64
	p1, p2   int64 // 50 y 20 unidades en la sucursal
	client   int64
	supplier int64
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore()}
	require.NoError(t, f.store.Run(ctx, func(repos repository.Repos) error {
		b := &entity.Branch{Name: "Centro"}
		o := &entity.Branch{Name: "Norte"}
		require.NoError(t, repos.Branches.Create(ctx, b))
		require.NoError(t, repos.Branches.Create(ctx, o))
		f.branch, f.other = b.ID, o.ID

		p1 := &entity.Product{BranchID: &f.branch, SKU: "P1", Quantity: 50, InitialQuantity: 50}
		p2 := &entity.Product{BranchID: &f.branch, SKU: "P2", Quantity: 20, InitialQuantity: 20}
		require.NoError(t, repos.Products.Create(ctx, p1))
		require.NoError(t, repos.Products.Create(ctx, p2))
		f.p1, f.p2 = p1.ID, p2.ID

		c := &entity.Account{Type: entity.AccountClient, Name: "Cliente", OpeningBalance: decimal.NewFromInt(100), Balance: decimal.NewFromInt(100)}
		s := &entity.Account{Type: entity.AccountSupplier, Name: "Proveedor"}
		require.NoError(t, repos.Accounts.Create(ctx, c))
		require.NoError(t, repos.Accounts.Create(ctx, s))
		f.client, f.supplier = c.ID, s.ID
		return nil
	}))
	f.uc = document.NewUseCase(f.store, inventory.NewStockProcessor(strict), account.NewBalanceLedger(), nil, logger.Nop())
	return f
}

type snapshot struct {
	p1, p2   int64
	client   decimal.Decimal
	supplier decimal.Decimal
}

func (f *fixture) snapshot(t *testing.T) snapshot {
	t.Helper()
	ctx := context.Background()
	var s snapshot
	require.NoError(t, f.store.View(ctx, func(repos repository.Repos) error {
		p1, err := repos.Products.GetByID(ctx, f.p1)
		require.NoError(t, err)
		p2, err := repos.Products.GetByID(ctx, f.p2)
		require.NoError(t, err)
		c, err := repos.Accounts.GetByID(ctx, f.client)
		require.NoError(t, err)
		sp, err := repos.Accounts.GetByID(ctx, f.supplier)
		require.NoError(t, err)
		s = snapshot{p1: p1.Quantity, p2: p2.Quantity, client: c.Balance, supplier: sp.Balance}
		return nil
	}))
	return s
}

func lines(f *fixture) []dto.DocumentLineRequest {
	return []dto.DocumentLineRequest{
		{ProductID: f.p1, Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
		{ProductID: f.p2, Quantity: 2, UnitPrice: decimal.RequireFromString("2.5")},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Efectos por tipo de documento
// ──────────────────────────────────────────────────────────────────────────────

func TestDocument_EfectosYDeleteInverso(t *testing.T) {
	cases := []struct {
		kind       string
		terms      string
		account    func(f *fixture) *int64
		stockSign  int64
		wantClient decimal.Decimal // delta esperado en el cliente
		wantSupp   decimal.Decimal // delta esperado en el proveedor
	}{
		{"sale", "cash", func(f *fixture) *int64 { return nil }, -1, decimal.Zero, decimal.Zero},
		{"sale", "deferred", func(f *fixture) *int64 { return &f.client }, -1, decimal.NewFromInt(55), decimal.Zero},
		{"purchase", "cash", func(f *fixture) *int64 { return &f.supplier }, 1, decimal.Zero, decimal.Zero},
		{"purchase", "deferred", func(f *fixture) *int64 { return &f.supplier }, 1, decimal.Zero, decimal.NewFromInt(55)},
		{"sales_return", "", func(f *fixture) *int64 { return &f.client }, 1, decimal.NewFromInt(-55), decimal.Zero},
		{"purchase_return", "", func(f *fixture) *int64 { return &f.supplier }, -1, decimal.Zero, decimal.NewFromInt(-55)},
		{"goods_receipt", "", func(f *fixture) *int64 { return &f.supplier }, 1, decimal.Zero, decimal.NewFromInt(55)},
		{"goods_issue", "", func(f *fixture) *int64 { return &f.client }, -1, decimal.NewFromInt(55), decimal.Zero},
	}
	for _, tc := range cases {
		t.Run(tc.kind+"_"+tc.terms, func(t *testing.T) {
			f := newFixture(t, false)
			ctx := context.Background()
			before := f.snapshot(t)

			doc, err := f.uc.Create(ctx, dto.CreateDocumentRequest{
				Kind: tc.kind, BranchID: f.branch, AccountID: tc.account(f), PaymentTerms: tc.terms, Lines: lines(f),
			})
			require.NoError(t, err)
			assert.True(t, doc.Total.Equal(decimal.NewFromInt(55)), "total = 5×10 + 2×2.5")

			after := f.snapshot(t)
			assert.Equal(t, before.p1+tc.stockSign*5, after.p1)
			assert.Equal(t, before.p2+tc.stockSign*2, after.p2)
			assert.True(t, after.client.Sub(before.client).Equal(tc.wantClient), "delta cliente %s", after.client.Sub(before.client))
			assert.True(t, after.supplier.Sub(before.supplier).Equal(tc.wantSupp), "delta proveedor %s", after.supplier.Sub(before.supplier))

			// Una entrada por línea, con la referencia del documento
			movs, err := inventory.NewMovementUseCase(f.store, nil, nil, logger.Nop()).ListMovements(ctx, nil, doc.Number, 0, 0)
			require.NoError(t, err)
			assert.Len(t, movs.Items, 2)

			require.NoError(t, f.uc.Delete(ctx, doc.ID))
			restored := f.snapshot(t)
			assert.Equal(t, before.p1, restored.p1)
			assert.Equal(t, before.p2, restored.p2)
			assert.True(t, before.client.Equal(restored.client))
			assert.True(t, before.supplier.Equal(restored.supplier))

			_, err = f.uc.GetByID(ctx, doc.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestDocument_NumeroAutomaticoYDuplicado(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "sale", BranchID: f.branch, Lines: lines(f)})
	require.NoError(t, err)
	assert.Equal(t, "FV-000001", doc.Number)
	assert.Equal(t, "cash", doc.PaymentTerms)

	_, err = f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "sale", Number: "FV-000001", BranchID: f.branch, Lines: lines(f)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "purchase", Number: "FV-000001", BranchID: f.branch, Lines: lines(f)})
	assert.NoError(t, err, "el número es único por tipo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestDocument_FalloEnUnaLineaNoDejaEfectosParciales(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	before := f.snapshot(t)

	_, err := f.uc.Create(ctx, dto.CreateDocumentRequest{
		Kind: "sale", BranchID: f.branch, AccountID: &f.client, PaymentTerms: "deferred",
		Lines: []dto.DocumentLineRequest{
			{ProductID: f.p1, Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: 999, Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, f.snapshot(t))
}

func TestDocument_ModoEstrictoRechazaSinMutar(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	before := f.snapshot(t)

	_, err := f.uc.Create(ctx, dto.CreateDocumentRequest{
		Kind: "sale", BranchID: f.branch, AccountID: &f.client, PaymentTerms: "deferred",
		Lines: []dto.DocumentLineRequest{
			{ProductID: f.p1, Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: f.p2, Quantity: 21, UnitPrice: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, before, f.snapshot(t), "la primera línea también se deshace")
}

func TestDocument_VentaRecortadaSeRevierteExacta(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, dto.CreateDocumentRequest{
		Kind: "sale", BranchID: f.branch,
		Lines: []dto.DocumentLineRequest{{ProductID: f.p2, Quantity: 25, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), doc.Lines[0].AppliedQuantity)
	assert.Equal(t, int64(0), f.snapshot(t).p2)

	require.NoError(t, f.uc.Delete(ctx, doc.ID))
	assert.Equal(t, int64(20), f.snapshot(t).p2, "se devuelve lo que salió, no lo solicitado")
}

func TestDocument_Validaciones(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "invoice", BranchID: f.branch, Lines: lines(f)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "sale", BranchID: f.branch, PaymentTerms: "deferred", Lines: lines(f)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta a crédito sin cliente")

	_, err = f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "goods_receipt", BranchID: f.branch, AccountID: &f.client, Lines: lines(f)})
	assert.ErrorIs(t, err, domain.ErrNotFound, "vale de entrada con cuenta de cliente")

	_, err = f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "sale", BranchID: f.other, Lines: lines(f)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "productos de otra sucursal")

	_, err = f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "sale", BranchID: f.branch,
		Lines: []dto.DocumentLineRequest{{ProductID: f.p1, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assert.ErrorIs(t, f.uc.Delete(ctx, 999), domain.ErrNotFound)

	list, err := f.uc.List(ctx, "", nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestDocument_ConsecutivoSaltaNumeroManual(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	manual, err := f.uc.Create(ctx, dto.CreateDocumentRequest{
		Kind: "sale", Number: entity.DocumentNumber(entity.DocSale, 2), BranchID: f.branch, Lines: lines(f),
	})
	require.NoError(t, err)

	seen := map[string]bool{manual.Number: true}
	for range 3 {
		doc, err := f.uc.Create(ctx, dto.CreateDocumentRequest{Kind: "sale", BranchID: f.branch, Lines: lines(f)})
		require.NoError(t, err, "el consecutivo automático no choca con el número manual")
		assert.False(t, seen[doc.Number], "número repetido %s", doc.Number)
		seen[doc.Number] = true
	}
}
