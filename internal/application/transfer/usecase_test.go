package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/transfer"
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
	store  *memory.Store
	uc     *transfer.UseCase
	from   int64 // sucursal 117
	to     int64 // sucursal 118
	p1     int64 // P1 en 117 con 100 unidades
	shared int64 // producto compartido con 40 unidades
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore()}
	require.NoError(t, f.store.Run(ctx, func(repos repository.Repos) error {
		b117 := &entity.Branch{Name: "Sucursal 117"}
		b118 := &entity.Branch{Name: "Sucursal 118"}
		require.NoError(t, repos.Branches.Create(ctx, b117))
		require.NoError(t, repos.Branches.Create(ctx, b118))
		f.from, f.to = b117.ID, b118.ID

		p1 := &entity.Product{BranchID: &f.from, SKU: "P1", Name: "Producto 1", Quantity: 100, InitialQuantity: 100}
		require.NoError(t, repos.Products.Create(ctx, p1))
		shared := &entity.Product{SKU: "SH", Name: "Compartido", Quantity: 40, InitialQuantity: 40}
		require.NoError(t, repos.Products.Create(ctx, shared))
		f.p1, f.shared = p1.ID, shared.ID
		return nil
	}))
	f.uc = transfer.NewUseCase(f.store, inventory.NewStockProcessor(false), nil, logger.Nop())
	return f
}

func (f *fixture) qty(t *testing.T, id int64) int64 {
	t.Helper()
	ctx := context.Background()
	var qty int64
	require.NoError(t, f.store.View(ctx, func(repos repository.Repos) error {
		p, err := repos.Products.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, p)
		qty = p.Quantity
		return nil
	}))
	return qty
}

// qtyBySKU existencia del SKU en la sucursal (0 si no existe).
func (f *fixture) qtyBySKU(t *testing.T, branchID int64, sku string) int64 {
	t.Helper()
	ctx := context.Background()
	var qty int64
	require.NoError(t, f.store.View(ctx, func(repos repository.Repos) error {
		p, err := repos.Products.GetByBranchAndSKU(ctx, &branchID, sku)
		require.NoError(t, err)
		if p != nil {
			qty = p.Quantity
		}
		return nil
	}))
	return qty
}

func (f *fixture) send(t *testing.T, items ...dto.TransferItemRequest) *dto.TransferResponse {
	t.Helper()
	resp, err := f.uc.Send(context.Background(), dto.SendTransferRequest{
		FromBranchID: f.from, ToBranchID: f.to, Items: items,
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario 117 → 118
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Escenario117a118(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent := f.send(t, dto.TransferItemRequest{ProductID: f.p1, Quantity: 20})
	assert.Equal(t, "sent", sent.Status)
	assert.Equal(t, "TR-000001", sent.Number)
	assert.Equal(t, int64(80), f.qty(t, f.p1))
	assert.Equal(t, int64(0), f.qtyBySKU(t, f.to, "P1"), "el destino no se toca al enviar")

	received, err := f.uc.Receive(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, "received", received.Status)
	require.NotNil(t, received.ReceivedAt)
	require.NotNil(t, received.Items[0].DestProductID)
	assert.Equal(t, int64(20), f.qtyBySKU(t, f.to, "P1"), "se crea el producto en destino con el SKU del origen")

	require.NoError(t, f.uc.Delete(ctx, sent.ID))
	assert.Equal(t, int64(100), f.qty(t, f.p1), "el origen vuelve a 100")
	assert.Equal(t, int64(0), f.qtyBySKU(t, f.to, "P1"), "el destino también se revierte")

	_, err = f.uc.GetByID(ctx, sent.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_SegundoReceiveRechazado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sent := f.send(t, dto.TransferItemRequest{ProductID: f.p1, Quantity: 5})

	_, err := f.uc.Receive(ctx, sent.ID)
	require.NoError(t, err)
	_, err = f.uc.Receive(ctx, sent.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(5), f.qtyBySKU(t, f.to, "P1"), "no se acredita dos veces")
}

func TestTransfer_ReceiveUsaProductoExistenteEnDestino(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var destID int64
	require.NoError(t, f.store.Run(ctx, func(repos repository.Repos) error {
		p := &entity.Product{BranchID: &f.to, SKU: "P1", Name: "Producto 1", Quantity: 7, InitialQuantity: 7}
		require.NoError(t, repos.Products.Create(ctx, p))
		destID = p.ID
		return nil
	}))

	sent := f.send(t, dto.TransferItemRequest{ProductID: f.p1, Quantity: 3})
	received, err := f.uc.Receive(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, destID, *received.Items[0].DestProductID)
	assert.Equal(t, int64(10), f.qty(t, destID))
}

func TestTransfer_ProductoCompartidoIdaYVueltaSinCambioNeto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sent := f.send(t, dto.TransferItemRequest{ProductID: f.shared, Quantity: 15})
	assert.Equal(t, int64(25), f.qty(t, f.shared))

	received, err := f.uc.Receive(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, f.shared, *received.Items[0].DestProductID, "compartido: mismo producto")
	assert.Equal(t, int64(40), f.qty(t, f.shared), "cambio neto cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación y eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_CancelDevuelveAlOrigen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sent := f.send(t, dto.TransferItemRequest{ProductID: f.p1, Quantity: 30})

	cancelled, err := f.uc.Cancel(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, int64(100), f.qty(t, f.p1))

	_, err = f.uc.Receive(ctx, sent.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un traslado anulado no se recibe")
	_, err = f.uc.Cancel(ctx, sent.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, f.uc.Delete(ctx, sent.ID))
	assert.Equal(t, int64(100), f.qty(t, f.p1), "eliminar un anulado no compensa de nuevo")
}

func TestTransfer_DeleteEnTransitoRevierteOrigen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sent := f.send(t,
		dto.TransferItemRequest{ProductID: f.p1, Quantity: 10},
		dto.TransferItemRequest{ProductID: f.shared, Quantity: 5},
	)
	require.NoError(t, f.uc.Delete(ctx, sent.ID))
	assert.Equal(t, int64(100), f.qty(t, f.p1))
	assert.Equal(t, int64(40), f.qty(t, f.shared))

	err := f.uc.Delete(ctx, sent.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_SendValidaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := dto.TransferItemRequest{ProductID: f.p1, Quantity: 1}

	_, err := f.uc.Send(ctx, dto.SendTransferRequest{FromBranchID: f.from, ToBranchID: f.from, Items: []dto.TransferItemRequest{item}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen = destino")

	_, err = f.uc.Send(ctx, dto.SendTransferRequest{FromBranchID: f.from, ToBranchID: 999, Items: []dto.TransferItemRequest{item}})
	assert.ErrorIs(t, err, domain.ErrNotFound, "sucursal destino inexistente")

	_, err = f.uc.Send(ctx, dto.SendTransferRequest{FromBranchID: f.from, ToBranchID: f.to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.uc.Send(ctx, dto.SendTransferRequest{FromBranchID: f.from, ToBranchID: f.to,
		Items: []dto.TransferItemRequest{{ProductID: f.p1, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.Send(ctx, dto.SendTransferRequest{FromBranchID: f.to, ToBranchID: f.from, Items: []dto.TransferItemRequest{item}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el producto no pertenece al origen")

	_, err = f.uc.Send(ctx, dto.SendTransferRequest{FromBranchID: f.from, ToBranchID: f.to,
		Items: []dto.TransferItemRequest{{ProductID: f.p1, Quantity: 60}, {ProductID: f.p1, Quantity: 60}}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(100), f.qty(t, f.p1), "ninguna validación fallida muta el inventario")
}

func TestTransfer_InTransitYListado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.send(t, dto.TransferItemRequest{ProductID: f.p1, Quantity: 10})
	f.send(t, dto.TransferItemRequest{ProductID: f.p1, Quantity: 5}, dto.TransferItemRequest{ProductID: f.shared, Quantity: 2})
	_, err := f.uc.Receive(ctx, first.ID)
	require.NoError(t, err)

	transit, err := f.uc.InTransit(ctx, &f.from)
	require.NoError(t, err)
	require.Len(t, transit, 2)
	assert.Equal(t, dto.InTransitDTO{ProductID: f.p1, Quantity: 5, Transfers: 1}, transit[0])
	assert.Equal(t, dto.InTransitDTO{ProductID: f.shared, Quantity: 2, Transfers: 1}, transit[1])

	sentList, err := f.uc.List(ctx, &f.from, "sent", 10, 0)
	require.NoError(t, err)
	assert.Len(t, sentList.Items, 2)

	receivedList, err := f.uc.List(ctx, &f.from, "received", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, receivedList.Items)

	_, err = f.uc.List(ctx, nil, "sideways", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
