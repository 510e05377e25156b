package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. La existencia se maneja vía movimientos:
// aquí solo se fija la semilla al crear.
type ProductUseCase struct {
	txRunner inventory.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner}
}

// Create crea un producto con Quantity = InitialQuantity. SKU único por sucursal.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.InitialQuantity < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		BranchID:        in.BranchID,
		SKU:             in.SKU,
		Name:            in.Name,
		Quantity:        in.InitialQuantity,
		InitialQuantity: in.InitialQuantity,
		MinStock:        in.MinStock,
		PurchasePrice:   in.PurchasePrice,
		SalePrice:       in.SalePrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if in.BranchID != nil {
			b, err := repos.Branches.GetByID(ctx, *in.BranchID)
			if err != nil {
				return fmt.Errorf("get branch: %w", err)
			}
			if b == nil {
				return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, *in.BranchID)
			}
		}
		existing, err := repos.Products.GetByBranchAndSKU(ctx, in.BranchID, in.SKU)
		if err != nil {
			return fmt.Errorf("get product by sku: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, in.SKU)
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		product, err = repos.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza datos descriptivos. No permite modificar la cantidad.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		product, err = repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			product.Name = *in.Name
		}
		if in.MinStock != nil {
			if *in.MinStock < 0 {
				return domain.ErrInvalidQuantity
			}
			product.MinStock = *in.MinStock
		}
		if in.PurchasePrice != nil {
			if in.PurchasePrice.IsNegative() {
				return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			product.PurchasePrice = *in.PurchasePrice
		}
		if in.SalePrice != nil {
			if in.SalePrice.IsNegative() {
				return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			product.SalePrice = *in.SalePrice
		}
		product.UpdatedAt = time.Now()
		return repos.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de una sucursal (incluye compartidos) con paginación.
func (uc *ProductUseCase) List(ctx context.Context, branchID *int64, limit, offset int) (*dto.ProductListResponse, error) {
	var list []*entity.Product
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Products.List(ctx, repository.ProductFilter{BranchID: branchID, Limit: limit, Offset: offset})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		BranchID:        p.BranchID,
		SKU:             p.SKU,
		Name:            p.Name,
		Quantity:        p.Quantity,
		InitialQuantity: p.InitialQuantity,
		MinStock:        p.MinStock,
		LowStock:        p.BelowMinStock(),
		PurchasePrice:   p.PurchasePrice,
		SalePrice:       p.SalePrice,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
