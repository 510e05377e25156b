package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// ledgerLockKey identifica el advisory lock que serializa las escrituras del ledger.
const ledgerLockKey int64 = 0x6c6564676572

var tracer = otel.Tracer("github.com/jhoicas/retail-ledger/postgres")

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre una transacción, toma el lock global del ledger y ejecuta fn con repos atados a la tx.
// Cualquier error de fn hace Rollback: no quedan efectos parciales.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) (err error) {
	ctx, span := tracer.Start(ctx, "postgres.tx")
	span.SetAttributes(attribute.String("db.system", "postgresql"))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return fmt.Errorf("ledger lock: %w", err)
	}
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// View ejecuta lecturas directamente sobre el pool.
func (r *TxRunner) View(ctx context.Context, fn func(repos repository.Repos) error) error {
	_, span := tracer.Start(ctx, "postgres.view")
	defer span.End()
	return fn(reposFor(r.pool))
}

func reposFor(q Querier) repository.Repos {
	return repository.Repos{
		Branches:       NewBranchRepository(q),
		Products:       NewProductRepository(q),
		Movements:      NewMovementRepository(q),
		Transfers:      NewTransferRepository(q),
		Accounts:       NewAccountRepository(q),
		AccountEntries: NewAccountEntryRepository(q),
		Vouchers:       NewVoucherRepository(q),
		Documents:      NewDocumentRepository(q),
	}
}
