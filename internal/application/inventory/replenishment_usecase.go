package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de reposición (alertas de stock bajo) de una sucursal.
// Descuenta lo que ya viene en camino por traslados enviados y no recibidos.
type ReplenishmentUseCase struct {
	txRunner TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(txRunner TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{txRunner: txRunner}
}

// LowStock devuelve los productos en o bajo su stock mínimo con la cantidad sugerida de pedido,
// ordenados por déficit. branchID nil considera todas las sucursales.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, branchID *int64) ([]dto.ReplenishmentSuggestionDTO, error) {
	var (
		products []*entity.Product
		incoming map[string]int64
	)
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		// 1. Productos bajo el mínimo
		products, err = repos.Products.List(ctx, repository.ProductFilter{BranchID: branchID, OnlyLowStock: true})
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(products) == 0 {
			return nil
		}
		// 2. Mercancía en camino hacia la sucursal, por SKU
		incoming, err = incomingBySKU(ctx, repos, branchID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 3. Construir los DTOs
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		idealStock := (p.MinStock*3 + 1) / 2
		inTransit := incoming[p.SKU]
		suggestedQty := max(idealStock-p.Quantity-inTransit, 0)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			BranchID:           p.BranchID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.Quantity,
			MinStock:           p.MinStock,
			IncomingInTransit:  inTransit,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           p.PurchasePrice,
			EstimatedOrderCost: p.PurchasePrice.Mul(decimal.NewFromInt(suggestedQty)),
		})
	}

	// 4. Ordenar: mayor déficit bajo el mínimo primero, luego mayor cantidad sugerida
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.MinStock - a.CurrentStock
		defB := b.MinStock - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.SuggestedOrderQty > b.SuggestedOrderQty
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func incomingBySKU(ctx context.Context, repos repository.Repos, branchID *int64) (map[string]int64, error) {
	filter := repository.TransferFilter{Status: entity.TransferSent}
	if branchID != nil {
		filter.BranchID = branchID
		filter.Direction = repository.TransferDirectionReceived
	}
	transfers, err := repos.Transfers.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	out := make(map[string]int64)
	for _, t := range transfers {
		for _, item := range t.Items {
			p, err := repos.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("get product: %w", err)
			}
			if p != nil {
				out[p.SKU] += item.Quantity
			}
		}
	}
	return out, nil
}
