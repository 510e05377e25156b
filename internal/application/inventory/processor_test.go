package inventory_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func seedProduct(t *testing.T, store *memory.Store, qty int64) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	require.NoError(t, store.Run(ctx, func(repos repository.Repos) error {
		b := &entity.Branch{Name: "Centro"}
		if err := repos.Branches.Create(ctx, b); err != nil {
			return err
		}
		p := &entity.Product{BranchID: &b.ID, SKU: "P1", Name: "Producto 1", Quantity: qty, InitialQuantity: qty, MinStock: 5}
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		id = p.ID
		return nil
	}))
	return id
}

func productQty(t *testing.T, store *memory.Store, id int64) int64 {
	t.Helper()
	ctx := context.Background()
	var qty int64
	require.NoError(t, store.View(ctx, func(repos repository.Repos) error {
		p, err := repos.Products.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, p)
		qty = p.Quantity
		return nil
	}))
	return qty
}

// conserved verifica Quantity = InitialQuantity + Σ entradas − Σ salidas.
func conserved(t *testing.T, store *memory.Store, id int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.View(ctx, func(repos repository.Repos) error {
		p, err := repos.Products.GetByID(ctx, id)
		require.NoError(t, err)
		totals, err := repos.Movements.TotalsByProduct(ctx)
		require.NoError(t, err)
		assert.Equal(t, p.InitialQuantity+totals[id].In-totals[id].Out, p.Quantity, "conservación de existencias")
		return nil
	}))
}

func apply(store *memory.Store, p *inventory.StockProcessor, id, qty int64, dir entity.MovementType, ref string) (*entity.MovementEntry, error) {
	ctx := context.Background()
	var entry *entity.MovementEntry
	err := store.Run(ctx, func(repos repository.Repos) error {
		var err error
		entry, err = p.Apply(ctx, repos, id, qty, dir, ref, entity.RefManual)
		return err
	})
	return entry, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply / Reverse
// ──────────────────────────────────────────────────────────────────────────────

func TestStockProcessor_ApplyRegistraMovimiento(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 10)
	proc := inventory.NewStockProcessor(false)

	entry, err := apply(store, proc, id, 5, entity.MovementIn, "MAN-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.Quantity)
	assert.Equal(t, int64(10), entry.QuantityBefore)
	assert.Equal(t, int64(15), entry.QuantityAfter)
	assert.NotNil(t, entry.BranchID, "la sucursal se copia del producto")
	assert.Equal(t, int64(15), productQty(t, store, id))
	conserved(t, store, id)
}

func TestStockProcessor_SalidaRecortadaConservaExistencias(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 3)
	proc := inventory.NewStockProcessor(false)

	entry, err := apply(store, proc, id, 10, entity.MovementOut, "FV-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.Quantity, "se registra lo aplicado")
	assert.Equal(t, int64(10), entry.RequestedQuantity, "y lo solicitado")
	assert.Equal(t, int64(0), productQty(t, store, id))
	conserved(t, store, id)
}

func TestStockProcessor_PisoEnCero(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 4)
	proc := inventory.NewStockProcessor(false)

	for _, q := range []int64{3, 3, 50, 1} {
		_, err := apply(store, proc, id, q, entity.MovementOut, "FV")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, productQty(t, store, id), int64(0))
	}
	conserved(t, store, id)
}

func TestStockProcessor_ModoEstrictoNoMuta(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 3)
	proc := inventory.NewStockProcessor(true)

	_, err := apply(store, proc, id, 4, entity.MovementOut, "FV-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), productQty(t, store, id))

	ctx := context.Background()
	require.NoError(t, store.View(ctx, func(repos repository.Repos) error {
		list, err := repos.Movements.List(ctx, repository.MovementFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
		return nil
	}))
}

func TestStockProcessor_ErroresDeEntrada(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 3)
	proc := inventory.NewStockProcessor(false)

	_, err := apply(store, proc, id, 0, entity.MovementIn, "X")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = apply(store, proc, id, -2, entity.MovementOut, "X")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = apply(store, proc, 999, 1, entity.MovementIn, "X")
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente se reporta, no se ignora")
}

func TestStockProcessor_ReverseDireccionOpuestaConNota(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 10)
	proc := inventory.NewStockProcessor(false)
	ctx := context.Background()

	var rev *entity.MovementEntry
	require.NoError(t, store.Run(ctx, func(repos repository.Repos) error {
		if _, err := proc.Apply(ctx, repos, id, 4, entity.MovementOut, "FV-000001", entity.RefSales); err != nil {
			return err
		}
		var err error
		rev, err = proc.Reverse(ctx, repos, id, 4, entity.MovementOut, "FV-000001")
		return err
	}))
	assert.Equal(t, entity.MovementIn, rev.Type)
	assert.Equal(t, entity.RefReversal, rev.ReferenceType)
	assert.Equal(t, "reversa de FV-000001", rev.Note)
	assert.Equal(t, int64(10), productQty(t, store, id))
	conserved(t, store, id)
}

func TestStockProcessor_EntradaQueDesbordaNoMuta(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 10)
	proc := inventory.NewStockProcessor(false)

	_, err := apply(store, proc, id, math.MaxInt64, entity.MovementIn, "FC-1")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(10), productQty(t, store, id))
	conserved(t, store, id)
}

// Una salida sobre existencia cero deja su entrada con cantidad aplicada 0: una entrada por línea.
func TestStockProcessor_SalidaSobreCeroRegistraEntradaVacia(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, 0)
	proc := inventory.NewStockProcessor(false)

	entry, err := apply(store, proc, id, 4, entity.MovementOut, "FV-9")
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.Quantity)
	assert.Equal(t, int64(4), entry.RequestedQuantity)
	assert.Equal(t, int64(0), entry.QuantityBefore)
	assert.Equal(t, int64(0), entry.QuantityAfter)
	conserved(t, store, id)
}
