package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// VoucherFilter filtros de comprobantes.
type VoucherFilter struct {
	AccountID *int64
	Kind      entity.VoucherKind
	Limit     int
	Offset    int
}

// VoucherRepository define el puerto de persistencia para comprobantes.
// Create asigna el consecutivo RV/PV si VoucherNumber está vacío y devuelve domain.ErrDuplicate si el número ya existe.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error
	GetByID(ctx context.Context, id int64) (*entity.Voucher, error)
	GetByNumber(ctx context.Context, number string) (*entity.Voucher, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter VoucherFilter) ([]*entity.Voucher, error)
}
