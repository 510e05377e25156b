package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

const voucherColumns = `id, kind, account_id, amount, payment_method, voucher_number, notes, created_at`

// VoucherRepo persiste recibos de caja y comprobantes de egreso.
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

// Create persiste el comprobante. Sin número se asigna RV-/PV- con el ID de la secuencia.
func (r *VoucherRepo) Create(ctx context.Context, v *entity.Voucher) error {
	if err := r.q.QueryRow(ctx, `SELECT nextval('vouchers_id_seq')`).Scan(&v.ID); err != nil {
		return fmt.Errorf("next voucher id: %w", err)
	}
	if v.VoucherNumber == "" {
		if err := r.assignNumber(ctx, v); err != nil {
			return err
		}
	}
	query := `
		INSERT INTO vouchers (id, kind, account_id, amount, payment_method, voucher_number, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		v.ID, string(v.Kind), v.AccountID, v.Amount, v.PaymentMethod, v.VoucherNumber, v.Notes, v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

// assignNumber toma el primer consecutivo RV-/PV- libre a partir de v.ID; un número manual pudo ocuparlo.
func (r *VoucherRepo) assignNumber(ctx context.Context, v *entity.Voucher) error {
	for range maxNumberAttempts {
		number := entity.VoucherNumber(v.Kind, v.ID)
		taken, err := numberTaken(ctx, r.q, `SELECT EXISTS (SELECT 1 FROM vouchers WHERE voucher_number = $1)`, number)
		if err != nil {
			return fmt.Errorf("check voucher number: %w", err)
		}
		if !taken {
			v.VoucherNumber = number
			return nil
		}
		if err := r.q.QueryRow(ctx, `SELECT nextval('vouchers_id_seq')`).Scan(&v.ID); err != nil {
			return fmt.Errorf("next voucher id: %w", err)
		}
	}
	return fmt.Errorf("%w: sin consecutivo libre para %s", domain.ErrConflict, v.Kind)
}

// GetByID obtiene un comprobante por ID.
func (r *VoucherRepo) GetByID(ctx context.Context, id int64) (*entity.Voucher, error) {
	return r.getOne(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id)
}

// GetByNumber obtiene un comprobante por su número.
func (r *VoucherRepo) GetByNumber(ctx context.Context, number string) (*entity.Voucher, error) {
	return r.getOne(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE voucher_number = $1`, number)
}

func (r *VoucherRepo) getOne(ctx context.Context, query string, arg any) (*entity.Voucher, error) {
	v, err := scanVoucher(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

// Delete elimina un comprobante.
func (r *VoucherRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por cuenta y tipo.
func (r *VoucherRepo) List(ctx context.Context, filter repository.VoucherFilter) ([]*entity.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", pos)
		args = append(args, *filter.AccountID)
		pos++
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, string(filter.Kind))
		pos++
	}
	pageSQL, pageArgs := paging(filter.Limit, filter.Offset, pos)
	query += " ORDER BY id DESC" + pageSQL
	args = append(args, pageArgs...)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanVoucher(row pgx.Row) (*entity.Voucher, error) {
	var v entity.Voucher
	var kind string
	err := row.Scan(&v.ID, &kind, &v.AccountID, &v.Amount, &v.PaymentMethod, &v.VoucherNumber, &v.Notes, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	v.Kind = entity.VoucherKind(kind)
	return &v, nil
}
