package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BalanceLedger aplica ajustes a los saldos de clientes y proveedores.
// Cada ajuste deja un AccountEntry para que saldo = saldo inicial + suma de ajustes sea verificable.
type BalanceLedger struct {
	now func() time.Time
}

// NewBalanceLedger construye el libro de saldos.
func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{now: time.Now}
}

// AdjustInput ajuste a aplicar sobre una cuenta.
type AdjustInput struct {
	AccountID       int64
	AccountType     entity.AccountType
	Delta           decimal.Decimal
	ReferenceType   entity.ReferenceType
	ReferenceNumber string
	Note            string
}

// Adjust suma delta al saldo (sin recorte: el saldo puede quedar negativo).
// Cuenta inexistente o de otro tipo = ErrNotFound.
func (l *BalanceLedger) Adjust(ctx context.Context, repos repository.Repos, in AdjustInput) (*entity.Account, error) {
	acc, err := repos.Accounts.GetForUpdate(ctx, in.AccountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if acc == nil || acc.Type != in.AccountType {
		return nil, fmt.Errorf("%w: %s %d", domain.ErrNotFound, in.AccountType, in.AccountID)
	}
	acc.Balance = acc.Balance.Add(in.Delta)
	if err := repos.Accounts.UpdateBalance(ctx, acc.ID, acc.Balance); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}
	entry := &entity.AccountEntry{
		AccountID:       acc.ID,
		Delta:           in.Delta,
		BalanceAfter:    acc.Balance,
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Note:            in.Note,
		CreatedAt:       l.now(),
	}
	if err := repos.AccountEntries.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append account entry: %w", err)
	}
	return acc, nil
}
