package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.AccountRepository      = (*AccountRepo)(nil)
	_ repository.AccountEntryRepository = (*AccountEntryRepo)(nil)
)

const accountColumns = `id, type, name, phone, opening_balance, balance, credit_limit, created_at, updated_at`

// AccountRepo implementación de AccountRepository para clientes y proveedores.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una nueva cuenta.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (type, name, phone, opening_balance, balance, credit_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		string(a.Type), a.Name, a.Phone, a.OpeningBalance, a.Balance, a.CreditLimit, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la cuenta hasta el fin de la transacción.
func (r *AccountRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *AccountRepo) getOne(ctx context.Context, query string, id int64) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// UpdateBalance fija el saldo de la cuenta.
func (r *AccountRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	return r.exec(ctx, `UPDATE accounts SET balance = $2, updated_at = now() WHERE id = $1`, id, balance)
}

// UpdateCreditLimit fija el cupo de crédito.
func (r *AccountRepo) UpdateCreditLimit(ctx context.Context, id int64, limit decimal.Decimal) error {
	return r.exec(ctx, `UPDATE accounts SET credit_limit = $2, updated_at = now() WHERE id = $1`, id, limit)
}

func (r *AccountRepo) exec(ctx context.Context, query string, id int64, value decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista cuentas, opcionalmente de un solo tipo.
func (r *AccountRepo) List(ctx context.Context, accountType entity.AccountType, limit, offset int) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}
	pos := 1
	if accountType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, string(accountType))
		pos++
	}
	pageSQL, pageArgs := paging(limit, offset, pos)
	query += " ORDER BY id DESC" + pageSQL
	args = append(args, pageArgs...)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	var typ string
	err := row.Scan(&a.ID, &typ, &a.Name, &a.Phone, &a.OpeningBalance, &a.Balance, &a.CreditLimit,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Type = entity.AccountType(typ)
	return &a, nil
}

// AccountEntryRepo persiste el historial de cambios de saldo.
type AccountEntryRepo struct {
	q Querier
}

// NewAccountEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountEntryRepository(q Querier) *AccountEntryRepo {
	return &AccountEntryRepo{q: q}
}

// Append inserta un asiento de cuenta.
func (r *AccountEntryRepo) Append(ctx context.Context, e *entity.AccountEntry) error {
	query := `
		INSERT INTO account_entries (account_id, delta, balance_after, reference_type, reference_number, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.AccountID, e.Delta, e.BalanceAfter, string(e.ReferenceType), e.ReferenceNumber, e.Note, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert account entry: %w", err)
	}
	return nil
}

// ListByAccount devuelve el extracto de una cuenta, más reciente primero.
func (r *AccountEntryRepo) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*entity.AccountEntry, error) {
	pageSQL, pageArgs := paging(limit, offset, 2)
	query := `
		SELECT id, account_id, delta, balance_after, reference_type, reference_number, note, created_at
		FROM account_entries WHERE account_id = $1 ORDER BY id DESC` + pageSQL
	rows, err := r.q.Query(ctx, query, append([]any{accountID}, pageArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("list account entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccountEntry
	for rows.Next() {
		var e entity.AccountEntry
		var refType string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Delta, &e.BalanceAfter, &refType,
			&e.ReferenceNumber, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ReferenceType = entity.ReferenceType(refType)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumByAccount suma los deltas registrados por cuenta.
func (r *AccountEntryRepo) SumByAccount(ctx context.Context) (map[int64]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT account_id, SUM(delta) FROM account_entries GROUP BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("sum account entries: %w", err)
	}
	defer rows.Close()
	out := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var accountID int64
		var sum decimal.Decimal
		if err := rows.Scan(&accountID, &sum); err != nil {
			return nil, err
		}
		out[accountID] = sum
	}
	return out, rows.Err()
}
