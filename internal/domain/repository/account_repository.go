package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AccountRepository define el puerto de persistencia para clientes y proveedores.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Account, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	UpdateCreditLimit(ctx context.Context, id int64, limit decimal.Decimal) error
	// List filtra por tipo; tipo vacío = todos.
	List(ctx context.Context, accountType entity.AccountType, limit, offset int) ([]*entity.Account, error)
}

// AccountEntryRepository historial de ajustes de saldo (solo inserción).
type AccountEntryRepository interface {
	Append(ctx context.Context, entry *entity.AccountEntry) error
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*entity.AccountEntry, error)
	SumByAccount(ctx context.Context) (map[int64]decimal.Decimal, error)
}
