package memory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

type branchRepo struct{ s *state }

var _ repository.BranchRepository = (*branchRepo)(nil)

func (r *branchRepo) Create(_ context.Context, b *entity.Branch) error {
	b.ID = r.s.next("branches")
	cp := *b
	r.s.branches[b.ID] = &cp
	return nil
}

func (r *branchRepo) GetByID(_ context.Context, id int64) (*entity.Branch, error) {
	b, ok := r.s.branches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *branchRepo) List(_ context.Context, limit, offset int) ([]*entity.Branch, error) {
	list := sortedDesc(r.s.branches, nil)
	out := make([]*entity.Branch, 0, len(list))
	for _, b := range page(list, limit, offset) {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

type productRepo struct{ s *state }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU && sameID(existing.BranchID, p.BranchID) {
			return domain.ErrDuplicate
		}
	}
	p.ID = r.s.next("products")
	r.s.products[p.ID] = copyProduct(p)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

// GetForUpdate en memoria equivale a GetByID: Run ya tiene el store bloqueado.
func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetByBranchAndSKU(_ context.Context, branchID *int64, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku && sameID(p.BranchID, branchID) {
			return copyProduct(p), nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	current, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := copyProduct(current)
	cp.Name = p.Name
	cp.MinStock = p.MinStock
	cp.PurchasePrice = p.PurchasePrice
	cp.SalePrice = p.SalePrice
	cp.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = cp
	return nil
}

func (r *productRepo) UpdateQuantity(_ context.Context, id, quantity int64) error {
	current, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	cp := copyProduct(current)
	cp.Quantity = quantity
	r.s.products[id] = cp
	return nil
}

func (r *productRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	list := sortedDesc(r.s.products, func(p *entity.Product) bool {
		if filter.BranchID != nil && !p.BelongsTo(*filter.BranchID) {
			return false
		}
		return !filter.OnlyLowStock || p.BelowMinStock()
	})
	out := make([]*entity.Product, 0, len(list))
	for _, p := range page(list, filter.Limit, filter.Offset) {
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.BranchID != nil {
		b := *p.BranchID
		cp.BranchID = &b
	}
	return &cp
}
