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

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, number, from_branch_id, to_branch_id, status, notes, sent_at, received_at, cancelled_at`

// TransferRepo persiste traslados entre sucursales (cabecera + branch_transfer_items).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste el traslado con sus ítems. Sin número se asigna TR-000001, TR-000002...
func (r *TransferRepo) Create(ctx context.Context, t *entity.BranchTransfer) error {
	if err := r.q.QueryRow(ctx, `SELECT nextval('branch_transfers_id_seq')`).Scan(&t.ID); err != nil {
		return fmt.Errorf("next transfer id: %w", err)
	}
	if t.Number == "" {
		t.Number = entity.TransferNumber(t.ID)
	}
	query := `
		INSERT INTO branch_transfers (id, number, from_branch_id, to_branch_id, status, notes, sent_at, received_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Number, t.FromBranchID, t.ToBranchID, string(t.Status), t.Notes, t.SentAt, t.ReceivedAt, t.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertItems(ctx, t)
}

func (r *TransferRepo) insertItems(ctx context.Context, t *entity.BranchTransfer) error {
	query := `
		INSERT INTO branch_transfer_items (transfer_id, line_no, product_id, quantity, dest_product_id)
		VALUES ($1, $2, $3, $4, $5)`
	for i, item := range t.Items {
		if _, err := r.q.Exec(ctx, query, t.ID, i+1, item.ProductID, item.Quantity, item.DestProductID); err != nil {
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un traslado con sus ítems.
func (r *TransferRepo) GetByID(ctx context.Context, id int64) (*entity.BranchTransfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM branch_transfers WHERE id = $1`, id)
}

// GetByNumber obtiene un traslado por su número TR-xxxxxx.
func (r *TransferRepo) GetByNumber(ctx context.Context, number string) (*entity.BranchTransfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM branch_transfers WHERE number = $1`, number)
}

func (r *TransferRepo) getOne(ctx context.Context, query string, arg any) (*entity.BranchTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.BranchTransfer{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// Update guarda estado, fechas e ítems (el destino resuelto al recibir).
func (r *TransferRepo) Update(ctx context.Context, t *entity.BranchTransfer) error {
	query := `
		UPDATE branch_transfers SET status = $2, notes = $3, received_at = $4, cancelled_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, t.ID, string(t.Status), t.Notes, t.ReceivedAt, t.CancelledAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM branch_transfer_items WHERE transfer_id = $1`, t.ID); err != nil {
		return fmt.Errorf("replace transfer items: %w", err)
	}
	return r.insertItems(ctx, t)
}

// Delete elimina el traslado; los ítems caen por ON DELETE CASCADE.
func (r *TransferRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM branch_transfers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por sucursal (origen, destino o ambos según Direction) y estado.
func (r *TransferRepo) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.BranchTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM branch_transfers WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(filter.Status))
		pos++
	}
	if filter.BranchID != nil {
		switch filter.Direction {
		case repository.TransferDirectionSent:
			query += fmt.Sprintf(" AND from_branch_id = $%d", pos)
		case repository.TransferDirectionReceived:
			query += fmt.Sprintf(" AND to_branch_id = $%d", pos)
		default:
			query += fmt.Sprintf(" AND (from_branch_id = $%d OR to_branch_id = $%d)", pos, pos)
		}
		args = append(args, *filter.BranchID)
		pos++
	}
	pageSQL, pageArgs := paging(filter.Limit, filter.Offset, pos)
	query += " ORDER BY id DESC" + pageSQL
	args = append(args, pageArgs...)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	var list []*entity.BranchTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// los ítems se cargan después de cerrar rows: una tx no admite dos consultas abiertas
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TransferRepo) attachItems(ctx context.Context, transfers []*entity.BranchTransfer) error {
	if len(transfers) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.BranchTransfer, len(transfers))
	ids := make([]int64, 0, len(transfers))
	for _, t := range transfers {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	query := `
		SELECT transfer_id, product_id, quantity, dest_product_id
		FROM branch_transfer_items WHERE transfer_id = ANY($1) ORDER BY transfer_id, line_no`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var transferID int64
		var item entity.TransferItem
		if err := rows.Scan(&transferID, &item.ProductID, &item.Quantity, &item.DestProductID); err != nil {
			return err
		}
		t := byID[transferID]
		t.Items = append(t.Items, item)
	}
	return rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.BranchTransfer, error) {
	var t entity.BranchTransfer
	var status string
	err := row.Scan(&t.ID, &t.Number, &t.FromBranchID, &t.ToBranchID, &status, &t.Notes,
		&t.SentAt, &t.ReceivedAt, &t.CancelledAt)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}
