package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

// MovementUseCase expone el procesador de movimientos como operaciones independientes:
// cada llamada es su propia unidad de trabajo.
type MovementUseCase struct {
	txRunner  TxRunner
	processor *StockProcessor
	notifier  StockNotifier
	log       *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, processor *StockProcessor, notifier StockNotifier, log *logger.Logger) *MovementUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MovementUseCase{
		txRunner:  txRunner,
		processor: processor,
		notifier:  notifier,
		log:       log,
	}
}

// MovementInput entrada para aplicar un movimiento de inventario.
// ReferenceType vacío = manual; ReferenceNumber vacío = se genera MAN-xxxxxxxx.
type MovementInput struct {
	ProductID       int64
	Quantity        int64
	Direction       entity.MovementType
	ReferenceNumber string
	ReferenceType   entity.ReferenceType
}

// ApplyStockMovement aplica una entrada o salida y devuelve el movimiento registrado.
func (uc *MovementUseCase) ApplyStockMovement(ctx context.Context, input MovementInput) (*dto.MovementResponse, error) {
	if !input.Direction.IsValid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, input.Direction)
	}
	if input.ReferenceType == "" {
		input.ReferenceType = entity.RefManual
	}
	// Las reversas solo se generan con ReverseStockMovement
	if !input.ReferenceType.IsValid() || input.ReferenceType == entity.RefReversal {
		return nil, fmt.Errorf("%w: tipo de referencia %q", domain.ErrInvalidInput, input.ReferenceType)
	}
	if input.ReferenceNumber == "" {
		input.ReferenceNumber = "MAN-" + strings.ToUpper(uuid.NewString()[:8])
	}

	var entry *entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		entry, err = uc.processor.Apply(ctx, repos, input.ProductID, input.Quantity,
			input.Direction, input.ReferenceNumber, input.ReferenceType)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, []*entity.MovementEntry{entry})
	uc.log.Info().
		Int64("product_id", entry.ProductID).
		Str("type", string(entry.Type)).
		Int64("quantity", entry.Quantity).
		Int64("requested", entry.RequestedQuantity).
		Str("ref", entry.ReferenceNumber).
		Msg("movimiento de inventario aplicado")
	return ToMovementResponse(entry), nil
}

// ReverseStockMovement revierte manualmente un movimiento previo.
func (uc *MovementUseCase) ReverseStockMovement(
	ctx context.Context,
	productID, quantity int64,
	originalDirection entity.MovementType,
	referenceNumber string,
) (*dto.MovementResponse, error) {
	if referenceNumber == "" {
		return nil, fmt.Errorf("%w: referencia requerida", domain.ErrInvalidInput)
	}
	var entry *entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := ensureNoLiveOwner(ctx, repos, referenceNumber); err != nil {
			return err
		}
		var err error
		entry, err = uc.processor.Reverse(ctx, repos, productID, quantity, originalDirection, referenceNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, []*entity.MovementEntry{entry})
	uc.log.Info().
		Int64("product_id", entry.ProductID).
		Str("type", string(entry.Type)).
		Int64("quantity", entry.Quantity).
		Str("ref", referenceNumber).
		Msg("movimiento de inventario revertido")
	return ToMovementResponse(entry), nil
}

// ensureNoLiveOwner rechaza reversas manuales sobre movimientos de un documento o traslado vigente:
// eliminarlo ya los revierte y la reversa quedaría aplicada dos veces.
func ensureNoLiveOwner(ctx context.Context, repos repository.Repos, referenceNumber string) error {
	entries, err := repos.Movements.List(ctx, repository.MovementFilter{ReferenceNumber: referenceNumber})
	if err != nil {
		return fmt.Errorf("list movements: %w", err)
	}
	checked := map[entity.ReferenceType]bool{}
	for _, e := range entries {
		if checked[e.ReferenceType] {
			continue
		}
		checked[e.ReferenceType] = true
		if e.ReferenceType == entity.RefBranchTransfer {
			t, err := repos.Transfers.GetByNumber(ctx, referenceNumber)
			if err != nil {
				return fmt.Errorf("get transfer: %w", err)
			}
			if t != nil {
				return fmt.Errorf("%w: %s es un traslado vigente, se revierte al eliminarlo", domain.ErrInvalidState, referenceNumber)
			}
			continue
		}
		kind, ok := e.ReferenceType.DocumentKind()
		if !ok {
			continue
		}
		d, err := repos.Documents.GetByKindAndNumber(ctx, kind, referenceNumber)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if d != nil {
			return fmt.Errorf("%w: %s es un documento vigente, se revierte al eliminarlo", domain.ErrInvalidState, referenceNumber)
		}
	}
	return nil
}

// ListMovements lista el libro de movimientos, más recientes primero.
func (uc *MovementUseCase) ListMovements(ctx context.Context, productID *int64, referenceNumber string, limit, offset int) (*dto.MovementListResponse, error) {
	var list []*entity.MovementEntry
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Movements.List(ctx, repository.MovementFilter{
			ProductID:       productID,
			ReferenceNumber: referenceNumber,
			Limit:           limit,
			Offset:          offset,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ToMovementResponse convierte una entrada del libro al DTO de salida.
func ToMovementResponse(m *entity.MovementEntry) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		BranchID:          m.BranchID,
		Type:              string(m.Type),
		Quantity:          m.Quantity,
		RequestedQuantity: m.RequestedQuantity,
		QuantityBefore:    m.QuantityBefore,
		QuantityAfter:     m.QuantityAfter,
		ReferenceNumber:   m.ReferenceNumber,
		ReferenceType:     string(m.ReferenceType),
		Note:              m.Note,
		CreatedAt:         m.CreatedAt,
	}
}
