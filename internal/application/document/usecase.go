package document

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger/internal/application/account"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// UseCase crea y elimina ventas, compras, devoluciones y vales de mercancía aplicando
// sus efectos en inventario y saldo dentro de una sola unidad de trabajo.
// Eliminar revierte exactamente lo que se aplicó al crear (AppliedQuantity y BalanceDelta).
type UseCase struct {
	txRunner  inventory.TxRunner
	processor *inventory.StockProcessor
	ledger    *account.BalanceLedger
	notifier  inventory.StockNotifier
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	processor *inventory.StockProcessor,
	ledger *account.BalanceLedger,
	notifier inventory.StockNotifier,
	log *logger.Logger,
) *UseCase {
	if notifier == nil {
		notifier = inventory.NopNotifier{}
	}
	return &UseCase{
		txRunner:  txRunner,
		processor: processor,
		ledger:    ledger,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Create registra el documento: un movimiento por línea y, según el tipo, un ajuste de saldo.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	kind := entity.DocumentKind(in.Kind)
	policy, ok := policyFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, in.Kind)
	}
	terms := entity.PaymentTerms(in.PaymentTerms)
	if terms == "" {
		terms = entity.TermsCash
	}
	if terms != entity.TermsCash && terms != entity.TermsDeferred {
		return nil, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, in.PaymentTerms)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: documento sin líneas", domain.ErrInvalidInput)
	}
	if policy.requiresAccount(terms) && in.AccountID == nil {
		return nil, fmt.Errorf("%w: %s requiere cuenta %s", domain.ErrInvalidInput, kind, policy.accountType)
	}

	doc := &entity.Document{
		Kind:         kind,
		Number:       in.Number,
		BranchID:     in.BranchID,
		AccountID:    in.AccountID,
		PaymentTerms: terms,
		Notes:        in.Notes,
		Total:        decimal.Zero,
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: producto %d", domain.ErrInvalidQuantity, l.ProductID)
		}
		if l.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo en producto %d", domain.ErrInvalidInput, l.ProductID)
		}
		line := entity.DocumentLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
		doc.Lines = append(doc.Lines, line)
		doc.Total = doc.Total.Add(line.Subtotal())
	}
	doc.BalanceDelta = policy.balanceDelta(doc.Total, terms, doc.AccountID != nil)

	var entries []*entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := uc.validate(ctx, repos, doc, policy); err != nil {
			return err
		}
		if doc.Number == "" {
			id, number, err := nextNumber(ctx, repos, kind)
			if err != nil {
				return err
			}
			doc.ID, doc.Number = id, number
		} else {
			id, err := repos.Documents.NextID(ctx)
			if err != nil {
				return fmt.Errorf("next document id: %w", err)
			}
			doc.ID = id
		}
		doc.CreatedAt = uc.now()

		for i := range doc.Lines {
			entry, err := uc.processor.Apply(ctx, repos, doc.Lines[i].ProductID, doc.Lines[i].Quantity,
				policy.direction, doc.Number, policy.refType)
			if err != nil {
				return err
			}
			doc.Lines[i].AppliedQuantity = entry.Quantity
			entries = append(entries, entry)
		}
		if !doc.BalanceDelta.IsZero() {
			_, err := uc.ledger.Adjust(ctx, repos, account.AdjustInput{
				AccountID:       *doc.AccountID,
				AccountType:     policy.accountType,
				Delta:           doc.BalanceDelta,
				ReferenceType:   policy.refType,
				ReferenceNumber: doc.Number,
			})
			if err != nil {
				return err
			}
		}
		if err := repos.Documents.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, entries)
	uc.log.Info().
		Str("kind", string(doc.Kind)).
		Str("ref", doc.Number).
		Str("total", doc.Total.String()).
		Str("balance_delta", doc.BalanceDelta.String()).
		Int("lines", len(doc.Lines)).
		Msg("documento registrado")
	return ToDocumentResponse(doc), nil
}

// maxNumberAttempts tope de IDs a saltar buscando un consecutivo libre.
const maxNumberAttempts = 1000

// nextNumber reserva IDs hasta que el consecutivo del tipo no esté tomado por un número manual.
func nextNumber(ctx context.Context, repos repository.Repos, kind entity.DocumentKind) (int64, string, error) {
	for range maxNumberAttempts {
		id, err := repos.Documents.NextID(ctx)
		if err != nil {
			return 0, "", fmt.Errorf("next document id: %w", err)
		}
		number := entity.DocumentNumber(kind, id)
		existing, err := repos.Documents.GetByKindAndNumber(ctx, kind, number)
		if err != nil {
			return 0, "", fmt.Errorf("get document: %w", err)
		}
		if existing == nil {
			return id, number, nil
		}
	}
	return 0, "", fmt.Errorf("%w: sin consecutivo libre para %s", domain.ErrConflict, kind)
}

// validate comprueba sucursal, número, productos y cuenta antes de cualquier mutación.
func (uc *UseCase) validate(ctx context.Context, repos repository.Repos, doc *entity.Document, policy effect) error {
	branch, err := repos.Branches.GetByID(ctx, doc.BranchID)
	if err != nil {
		return fmt.Errorf("get branch: %w", err)
	}
	if branch == nil {
		return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, doc.BranchID)
	}
	if doc.Number != "" {
		existing, err := repos.Documents.GetByKindAndNumber(ctx, doc.Kind, doc.Number)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: %s %s", domain.ErrDuplicate, doc.Kind, doc.Number)
		}
	}
	for _, l := range doc.Lines {
		p, err := repos.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if p == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, l.ProductID)
		}
		if !p.BelongsTo(doc.BranchID) {
			return fmt.Errorf("%w: producto %s no pertenece a la sucursal %d", domain.ErrInvalidInput, p.SKU, doc.BranchID)
		}
	}
	if doc.AccountID != nil {
		acc, err := repos.Accounts.GetByID(ctx, *doc.AccountID)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if acc == nil || acc.Type != policy.accountType {
			return fmt.Errorf("%w: %s %d", domain.ErrNotFound, policy.accountType, *doc.AccountID)
		}
	}
	return nil
}

// Delete revierte cada línea por la cantidad aplicada, deshace el ajuste de saldo y elimina el documento.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	var (
		doc     *entity.Document
		entries []*entity.MovementEntry
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		doc, err = repos.Documents.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if doc == nil {
			return fmt.Errorf("%w: documento %d", domain.ErrNotFound, id)
		}
		policy, ok := policyFor(doc.Kind)
		if !ok {
			return fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, doc.Kind)
		}
		for _, l := range doc.Lines {
			if l.AppliedQuantity <= 0 {
				continue
			}
			entry, err := uc.processor.Reverse(ctx, repos, l.ProductID, l.AppliedQuantity, policy.direction, doc.Number)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		if !doc.BalanceDelta.IsZero() && doc.AccountID != nil {
			_, err := uc.ledger.Adjust(ctx, repos, account.AdjustInput{
				AccountID:       *doc.AccountID,
				AccountType:     policy.accountType,
				Delta:           doc.BalanceDelta.Neg(),
				ReferenceType:   entity.RefReversal,
				ReferenceNumber: doc.Number,
				Note:            "reversa de " + doc.Number,
			})
			if err != nil {
				return err
			}
		}
		return repos.Documents.Delete(ctx, doc.ID)
	})
	if err != nil {
		return err
	}
	uc.notifier.Publish(ctx, entries)
	uc.log.Info().
		Str("kind", string(doc.Kind)).
		Str("ref", doc.Number).
		Msg("documento eliminado")
	return nil
}

// GetByID obtiene un documento.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.DocumentResponse, error) {
	var doc *entity.Document
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		doc, err = repos.Documents.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return ToDocumentResponse(doc), nil
}

// List lista documentos filtrando por tipo (vacío = todos).
func (uc *UseCase) List(ctx context.Context, kind string, branchID *int64, limit, offset int) (*dto.DocumentListResponse, error) {
	k := entity.DocumentKind(kind)
	if _, ok := policyFor(k); k != "" && !ok {
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, kind)
	}
	var list []*entity.Document
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Documents.List(ctx, repository.DocumentFilter{
			Kind:     k,
			BranchID: branchID,
			Limit:    limit,
			Offset:   offset,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *ToDocumentResponse(d))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ToDocumentResponse convierte el documento al DTO de salida.
func ToDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	if d == nil {
		return nil
	}
	lines := make([]dto.DocumentLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.DocumentLineResponse{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			AppliedQuantity: l.AppliedQuantity,
			UnitPrice:       l.UnitPrice,
			Subtotal:        l.Subtotal(),
		})
	}
	return &dto.DocumentResponse{
		ID:           d.ID,
		Kind:         string(d.Kind),
		Number:       d.Number,
		BranchID:     d.BranchID,
		AccountID:    d.AccountID,
		PaymentTerms: string(d.PaymentTerms),
		Lines:        lines,
		Total:        d.Total,
		BalanceDelta: d.BalanceDelta,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
	}
}
