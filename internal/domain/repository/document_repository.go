package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// DocumentFilter filtros de documentos.
type DocumentFilter struct {
	Kind      entity.DocumentKind
	BranchID  *int64
	AccountID *int64
	Limit     int
	Offset    int
}

// DocumentRepository define el puerto de persistencia para ventas, compras, devoluciones y vales.
// Create asigna ID si viene en cero y, si Number está vacío, el consecutivo del tipo (FV-xxxxxx, ...).
type DocumentRepository interface {
	// NextID reserva el siguiente ID, para conocer el número antes de aplicar las líneas.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id int64) (*entity.Document, error)
	GetByKindAndNumber(ctx context.Context, kind entity.DocumentKind, number string) (*entity.Document, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
}
