package transfer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

// UseCase máquina de estados de traslados entre sucursales: sent -> received | cancelled.
// Enviar debita el origen; recibir acredita el destino. Cada operación es una unidad de trabajo.
type UseCase struct {
	txRunner  inventory.TxRunner
	processor *inventory.StockProcessor
	notifier  inventory.StockNotifier
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	processor *inventory.StockProcessor,
	notifier inventory.StockNotifier,
	log *logger.Logger,
) *UseCase {
	if notifier == nil {
		notifier = inventory.NopNotifier{}
	}
	return &UseCase{
		txRunner:  txRunner,
		processor: processor,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Send crea el traslado en estado sent y debita cada línea en la sucursal de origen.
// El destino no se toca hasta Receive.
func (uc *UseCase) Send(ctx context.Context, in dto.SendTransferRequest) (*dto.TransferResponse, error) {
	if in.FromBranchID == in.ToBranchID {
		return nil, fmt.Errorf("%w: origen y destino iguales", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: traslado sin líneas", domain.ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: producto %d", domain.ErrInvalidQuantity, item.ProductID)
		}
	}

	var (
		t       *entity.BranchTransfer
		entries []*entity.MovementEntry
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := requireBranches(ctx, repos, in.FromBranchID, in.ToBranchID); err != nil {
			return err
		}
		// Validar todas las líneas antes de mutar nada. Solo se envía lo que hay en existencia,
		// así lo que queda en tránsito coincide con lo debitado.
		requested := make(map[int64]int64, len(in.Items))
		for _, item := range in.Items {
			p, err := repos.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("get product: %w", err)
			}
			if p == nil {
				return fmt.Errorf("%w: producto %d", domain.ErrNotFound, item.ProductID)
			}
			if !p.BelongsTo(in.FromBranchID) {
				return fmt.Errorf("%w: producto %s no pertenece a la sucursal de origen", domain.ErrInvalidInput, p.SKU)
			}
			requested[p.ID] += item.Quantity
			if requested[p.ID] > p.Quantity {
				return fmt.Errorf("%w: producto %s tiene %d", domain.ErrInsufficientStock, p.SKU, p.Quantity)
			}
		}

		t = &entity.BranchTransfer{
			FromBranchID: in.FromBranchID,
			ToBranchID:   in.ToBranchID,
			Status:       entity.TransferSent,
			Notes:        in.Notes,
			SentAt:       uc.now(),
		}
		for _, item := range in.Items {
			t.Items = append(t.Items, entity.TransferItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		if err := repos.Transfers.Create(ctx, t); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		for _, item := range t.Items {
			entry, err := uc.processor.Apply(ctx, repos, item.ProductID, item.Quantity,
				entity.MovementOut, t.Number, entity.RefBranchTransfer)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, entries)
	uc.log.Info().
		Str("ref", t.Number).
		Int64("from_branch", t.FromBranchID).
		Int64("to_branch", t.ToBranchID).
		Int("items", len(t.Items)).
		Msg("traslado enviado")
	return ToTransferResponse(t), nil
}

// Receive acredita la sucursal destino y marca el traslado como recibido.
// Solo desde sent: un segundo Receive devuelve ErrInvalidState y no acredita dos veces.
func (uc *UseCase) Receive(ctx context.Context, id int64) (*dto.TransferResponse, error) {
	var (
		t       *entity.BranchTransfer
		entries []*entity.MovementEntry
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		t, err = getTransfer(ctx, repos, id)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferSent {
			return fmt.Errorf("%w: traslado %s está %s", domain.ErrInvalidState, t.Number, t.Status)
		}
		for i := range t.Items {
			destID, err := uc.destinationProduct(ctx, repos, t.Items[i].ProductID, t.ToBranchID)
			if err != nil {
				return err
			}
			t.Items[i].DestProductID = &destID
			entry, err := uc.processor.Apply(ctx, repos, destID, t.Items[i].Quantity,
				entity.MovementIn, t.Number, entity.RefBranchTransfer)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		now := uc.now()
		t.Status = entity.TransferReceived
		t.ReceivedAt = &now
		return repos.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, entries)
	uc.log.Info().Str("ref", t.Number).Int64("to_branch", t.ToBranchID).Msg("traslado recibido")
	return ToTransferResponse(t), nil
}

// Cancel anula un traslado aún en tránsito devolviendo la mercancía al origen.
func (uc *UseCase) Cancel(ctx context.Context, id int64) (*dto.TransferResponse, error) {
	var (
		t       *entity.BranchTransfer
		entries []*entity.MovementEntry
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		t, err = getTransfer(ctx, repos, id)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferSent {
			return fmt.Errorf("%w: traslado %s está %s", domain.ErrInvalidState, t.Number, t.Status)
		}
		entries, err = uc.reverseOrigin(ctx, repos, t)
		if err != nil {
			return err
		}
		now := uc.now()
		t.Status = entity.TransferCancelled
		t.CancelledAt = &now
		return repos.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, entries)
	uc.log.Info().Str("ref", t.Number).Msg("traslado anulado")
	return ToTransferResponse(t), nil
}

// Delete elimina el traslado compensando lo que tenga aplicado:
// sent revierte el débito del origen; received revierte origen y destino; cancelled no tiene nada pendiente.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	var (
		t       *entity.BranchTransfer
		entries []*entity.MovementEntry
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		t, err = getTransfer(ctx, repos, id)
		if err != nil {
			return err
		}
		switch t.Status {
		case entity.TransferSent:
			entries, err = uc.reverseOrigin(ctx, repos, t)
		case entity.TransferReceived:
			entries, err = uc.reverseOrigin(ctx, repos, t)
			if err == nil {
				var dest []*entity.MovementEntry
				dest, err = uc.reverseDestination(ctx, repos, t)
				entries = append(entries, dest...)
			}
		}
		if err != nil {
			return err
		}
		return repos.Transfers.Delete(ctx, t.ID)
	})
	if err != nil {
		return err
	}
	uc.notifier.Publish(ctx, entries)
	uc.log.Info().Str("ref", t.Number).Str("status", string(t.Status)).Msg("traslado eliminado")
	return nil
}

// GetByID obtiene un traslado.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.TransferResponse, error) {
	var t *entity.BranchTransfer
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		t, err = getTransfer(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToTransferResponse(t), nil
}

// List lista traslados de una sucursal. direction: sent, received o vacío (ambos).
func (uc *UseCase) List(ctx context.Context, branchID *int64, direction string, limit, offset int) (*dto.TransferListResponse, error) {
	switch direction {
	case "", repository.TransferDirectionSent, repository.TransferDirectionReceived:
	default:
		return nil, fmt.Errorf("%w: dirección %q", domain.ErrInvalidInput, direction)
	}
	var list []*entity.BranchTransfer
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Transfers.List(ctx, repository.TransferFilter{
			BranchID:  branchID,
			Direction: direction,
			Limit:     limit,
			Offset:    offset,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *ToTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// InTransit suma por producto las cantidades de los traslados enviados y no recibidos.
// Es una vista derivada: no se almacena. branchID filtra por sucursal de origen.
func (uc *UseCase) InTransit(ctx context.Context, branchID *int64) ([]dto.InTransitDTO, error) {
	var list []*entity.BranchTransfer
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Transfers.List(ctx, repository.TransferFilter{
			BranchID:  branchID,
			Direction: repository.TransferDirectionSent,
			Status:    entity.TransferSent,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	byProduct := make(map[int64]*dto.InTransitDTO)
	for _, t := range list {
		seen := make(map[int64]bool)
		for _, item := range t.Items {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &dto.InTransitDTO{ProductID: item.ProductID}
				byProduct[item.ProductID] = row
			}
			row.Quantity += item.Quantity
			if !seen[item.ProductID] {
				row.Transfers++
				seen[item.ProductID] = true
			}
		}
	}
	out := make([]dto.InTransitDTO, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// destinationProduct resuelve el producto a acreditar en destino: el mismo si es compartido,
// el de igual SKU en la sucursal destino, o una copia nueva con existencia cero.
func (uc *UseCase) destinationProduct(ctx context.Context, repos repository.Repos, productID, toBranchID int64) (int64, error) {
	origin, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("get product: %w", err)
	}
	if origin == nil {
		return 0, fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
	}
	if origin.IsShared() {
		return origin.ID, nil
	}
	dest, err := repos.Products.GetByBranchAndSKU(ctx, &toBranchID, origin.SKU)
	if err != nil {
		return 0, fmt.Errorf("get product by sku: %w", err)
	}
	if dest != nil {
		return dest.ID, nil
	}
	now := uc.now()
	clone := &entity.Product{
		BranchID:      &toBranchID,
		SKU:           origin.SKU,
		Name:          origin.Name,
		MinStock:      origin.MinStock,
		PurchasePrice: origin.PurchasePrice,
		SalePrice:     origin.SalePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repos.Products.Create(ctx, clone); err != nil {
		return 0, fmt.Errorf("create destination product: %w", err)
	}
	return clone.ID, nil
}

func (uc *UseCase) reverseOrigin(ctx context.Context, repos repository.Repos, t *entity.BranchTransfer) ([]*entity.MovementEntry, error) {
	entries := make([]*entity.MovementEntry, 0, len(t.Items))
	for _, item := range t.Items {
		entry, err := uc.processor.Reverse(ctx, repos, item.ProductID, item.Quantity, entity.MovementOut, t.Number)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (uc *UseCase) reverseDestination(ctx context.Context, repos repository.Repos, t *entity.BranchTransfer) ([]*entity.MovementEntry, error) {
	entries := make([]*entity.MovementEntry, 0, len(t.Items))
	for _, item := range t.Items {
		if item.DestProductID == nil {
			continue
		}
		entry, err := uc.processor.Reverse(ctx, repos, *item.DestProductID, item.Quantity, entity.MovementIn, t.Number)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func requireBranches(ctx context.Context, repos repository.Repos, ids ...int64) error {
	for _, id := range ids {
		b, err := repos.Branches.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get branch: %w", err)
		}
		if b == nil {
			return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, id)
		}
	}
	return nil
}

func getTransfer(ctx context.Context, repos repository.Repos, id int64) (*entity.BranchTransfer, error) {
	t, err := repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: traslado %d", domain.ErrNotFound, id)
	}
	return t, nil
}

// ToTransferResponse convierte el traslado al DTO de salida.
func ToTransferResponse(t *entity.BranchTransfer) *dto.TransferResponse {
	if t == nil {
		return nil
	}
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, dto.TransferItemResponse{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			DestProductID: item.DestProductID,
		})
	}
	return &dto.TransferResponse{
		ID:           t.ID,
		Number:       t.Number,
		FromBranchID: t.FromBranchID,
		ToBranchID:   t.ToBranchID,
		Status:       string(t.Status),
		Items:        items,
		Notes:        t.Notes,
		SentAt:       t.SentAt,
		ReceivedAt:   t.ReceivedAt,
		CancelledAt:  t.CancelledAt,
	}
}
