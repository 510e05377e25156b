package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persiste el ledger de movimientos (solo inserción).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta un movimiento y asigna su ID.
func (r *MovementRepo) Append(ctx context.Context, m *entity.MovementEntry) error {
	query := `
		INSERT INTO movement_entries (product_id, branch_id, type, quantity, requested_quantity,
			quantity_before, quantity_after, reference_number, reference_type, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.BranchID, string(m.Type), m.Quantity, m.RequestedQuantity,
		m.QuantityBefore, m.QuantityAfter, m.ReferenceNumber, string(m.ReferenceType), m.Note, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List devuelve movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	query := `
		SELECT id, product_id, branch_id, type, quantity, requested_quantity, quantity_before,
			quantity_after, reference_number, reference_type, note, created_at
		FROM movement_entries WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, *filter.ProductID)
		pos++
	}
	if filter.BranchID != nil {
		query += fmt.Sprintf(" AND branch_id = $%d", pos)
		args = append(args, *filter.BranchID)
		pos++
	}
	if filter.ReferenceNumber != "" {
		query += fmt.Sprintf(" AND reference_number = $%d", pos)
		args = append(args, filter.ReferenceNumber)
		pos++
	}
	pageSQL, pageArgs := paging(filter.Limit, filter.Offset, pos)
	query += " ORDER BY id DESC" + pageSQL
	args = append(args, pageArgs...)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		var typ, refType string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.BranchID, &typ, &m.Quantity, &m.RequestedQuantity, &m.QuantityBefore,
			&m.QuantityAfter, &m.ReferenceNumber, &refType, &m.Note, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Type = entity.MovementType(typ)
		m.ReferenceType = entity.ReferenceType(refType)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// TotalsByProduct suma entradas y salidas aplicadas por producto.
func (r *MovementRepo) TotalsByProduct(ctx context.Context) (map[int64]repository.MovementTotals, error) {
	query := `
		SELECT product_id,
			COALESCE(SUM(CASE WHEN type = 'in' THEN quantity ELSE 0 END), 0)::BIGINT,
			COALESCE(SUM(CASE WHEN type = 'out' THEN quantity ELSE 0 END), 0)::BIGINT
		FROM movement_entries GROUP BY product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("movement totals: %w", err)
	}
	defer rows.Close()
	out := make(map[int64]repository.MovementTotals)
	for rows.Next() {
		var productID int64
		var t repository.MovementTotals
		if err := rows.Scan(&productID, &t.In, &t.Out); err != nil {
			return nil, err
		}
		out[productID] = t
	}
	return out, rows.Err()
}
