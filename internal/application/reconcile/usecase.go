package reconcile

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// UseCase recalcula existencias y saldos desde los libros y reporta las diferencias.
// Un reporte vacío significa que los libros cuadran.
type UseCase struct {
	txRunner inventory.TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner inventory.TxRunner) *UseCase {
	return &UseCase{txRunner: txRunner}
}

// Products compara Quantity con InitialQuantity + entradas - salidas de cada producto.
func (uc *UseCase) Products(ctx context.Context, branchID *int64) (*dto.ProductReconciliationResponse, error) {
	out := &dto.ProductReconciliationResponse{Drifts: []dto.ProductDriftDTO{}}
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		products, err := repos.Products.List(ctx, repository.ProductFilter{BranchID: branchID})
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		totals, err := repos.Movements.TotalsByProduct(ctx)
		if err != nil {
			return fmt.Errorf("movement totals: %w", err)
		}
		for _, p := range products {
			t := totals[p.ID]
			expected := p.InitialQuantity + t.In - t.Out
			out.Checked++
			if expected != p.Quantity {
				out.Drifts = append(out.Drifts, dto.ProductDriftDTO{
					ProductID: p.ID,
					BranchID:  p.BranchID,
					SKU:       p.SKU,
					Expected:  expected,
					Actual:    p.Quantity,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Accounts compara Balance con OpeningBalance + suma de ajustes de cada cuenta.
func (uc *UseCase) Accounts(ctx context.Context, accountType string) (*dto.AccountReconciliationResponse, error) {
	t := entity.AccountType(accountType)
	if t != "" && !t.IsValid() {
		return nil, fmt.Errorf("%w: tipo de cuenta %q", domain.ErrInvalidInput, accountType)
	}
	out := &dto.AccountReconciliationResponse{Drifts: []dto.AccountDriftDTO{}}
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		accounts, err := repos.Accounts.List(ctx, t, 0, 0)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		sums, err := repos.AccountEntries.SumByAccount(ctx)
		if err != nil {
			return fmt.Errorf("account entry totals: %w", err)
		}
		for _, a := range accounts {
			expected := a.OpeningBalance.Add(sums[a.ID])
			out.Checked++
			if !expected.Equal(a.Balance) {
				out.Drifts = append(out.Drifts, dto.AccountDriftDTO{
					AccountID: a.ID,
					Type:      string(a.Type),
					Name:      a.Name,
					Expected:  expected,
					Actual:    a.Balance,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
