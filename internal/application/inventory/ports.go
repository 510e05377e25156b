package inventory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo, pasando repositorios atados a ella.
// Run es atómico: si fn devuelve error no queda ningún efecto parcial.
// View ejecuta lecturas sin abrir transacción; fn no debe escribir.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
	View(ctx context.Context, fn func(repos repository.Repos) error) error
}

// StockNotifier recibe los movimientos ya confirmados (p. ej. el hub websocket).
type StockNotifier interface {
	Publish(ctx context.Context, entries []*entity.MovementEntry)
}

// NopNotifier descarta las notificaciones.
type NopNotifier struct{}

// Publish no hace nada.
func (NopNotifier) Publish(context.Context, []*entity.MovementEntry) {}
