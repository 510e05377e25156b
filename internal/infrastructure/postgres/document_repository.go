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

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const documentColumns = `id, kind, number, branch_id, account_id, payment_terms, total, balance_delta, notes, created_at`

// DocumentRepo persiste documentos comerciales (cabecera + document_lines).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// NextID reserva el siguiente ID de documento (sirve para numerar antes de aplicar las líneas).
func (r *DocumentRepo) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('documents_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next document id: %w", err)
	}
	return id, nil
}

// Create persiste el documento y sus líneas. Número repetido para el mismo tipo devuelve domain.ErrDuplicate.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	if d.ID == 0 {
		id, err := r.NextID(ctx)
		if err != nil {
			return err
		}
		d.ID = id
	}
	if d.Number == "" {
		if err := r.assignNumber(ctx, d); err != nil {
			return err
		}
	}
	query := `
		INSERT INTO documents (id, kind, number, branch_id, account_id, payment_terms, total, balance_delta, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		d.ID, string(d.Kind), d.Number, d.BranchID, d.AccountID, string(d.PaymentTerms),
		d.Total, d.BalanceDelta, d.Notes, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}

	lineQuery := `
		INSERT INTO document_lines (document_id, line_no, product_id, quantity, unit_price, applied_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, l := range d.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, d.ID, i+1, l.ProductID, l.Quantity, l.UnitPrice, l.AppliedQuantity); err != nil {
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

// assignNumber toma el primer consecutivo libre del tipo a partir de d.ID.
func (r *DocumentRepo) assignNumber(ctx context.Context, d *entity.Document) error {
	for range maxNumberAttempts {
		number := entity.DocumentNumber(d.Kind, d.ID)
		taken, err := numberTaken(ctx, r.q, `SELECT EXISTS (SELECT 1 FROM documents WHERE kind = $2 AND number = $1)`, number, string(d.Kind))
		if err != nil {
			return fmt.Errorf("check document number: %w", err)
		}
		if !taken {
			d.Number = number
			return nil
		}
		if d.ID, err = r.NextID(ctx); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: sin consecutivo libre para %s", domain.ErrConflict, d.Kind)
}

// GetByID obtiene un documento con sus líneas.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetByKindAndNumber busca un documento por su número dentro del tipo.
func (r *DocumentRepo) GetByKindAndNumber(ctx context.Context, kind entity.DocumentKind, number string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE kind = $1 AND number = $2`, string(kind), number)
}

func (r *DocumentRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if err := r.attachLines(ctx, []*entity.Document{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete elimina el documento; las líneas caen por ON DELETE CASCADE.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra documentos por tipo, sucursal y cuenta.
func (r *DocumentRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, string(filter.Kind))
		pos++
	}
	if filter.BranchID != nil {
		query += fmt.Sprintf(" AND branch_id = $%d", pos)
		args = append(args, *filter.BranchID)
		pos++
	}
	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", pos)
		args = append(args, *filter.AccountID)
		pos++
	}
	pageSQL, pageArgs := paging(filter.Limit, filter.Offset, pos)
	query += " ORDER BY id DESC" + pageSQL
	args = append(args, pageArgs...)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *DocumentRepo) attachLines(ctx context.Context, docs []*entity.Document) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Document, len(docs))
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	query := `
		SELECT document_id, product_id, quantity, unit_price, applied_quantity
		FROM document_lines WHERE document_id = ANY($1) ORDER BY document_id, line_no`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var docID int64
		var l entity.DocumentLine
		if err := rows.Scan(&docID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.AppliedQuantity); err != nil {
			return err
		}
		d := byID[docID]
		d.Lines = append(d.Lines, l)
	}
	return rows.Err()
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var kind, terms string
	err := row.Scan(&d.ID, &kind, &d.Number, &d.BranchID, &d.AccountID, &terms,
		&d.Total, &d.BalanceDelta, &d.Notes, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Kind = entity.DocumentKind(kind)
	d.PaymentTerms = entity.PaymentTerms(terms)
	return &d, nil
}
