package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isCheckViolation detecta el CHECK (quantity >= 0) de products.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// paging arma LIMIT/OFFSET desde la posición pos. limit <= 0 = sin límite (LIMIT NULL).
func paging(limit, offset, pos int) (string, []any) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	offset = max(offset, 0)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1), []any{lim, offset}
}

// maxNumberAttempts tope de IDs a saltar buscando un consecutivo libre.
const maxNumberAttempts = 1000

// numberTaken ejecuta un SELECT EXISTS sobre el número dado.
func numberTaken(ctx context.Context, q Querier, query string, args ...any) (bool, error) {
	var taken bool
	if err := q.QueryRow(ctx, query, args...).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}
