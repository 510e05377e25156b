package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewBranchUseCase(memory.NewStore())

	created, err := uc.Create(ctx, dto.CreateBranchRequest{Name: "Centro", Address: "Cra 7"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Centro", got.Name)

	_, err = uc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateBranchRequest{Name: "Norte"})
	require.NoError(t, err)
	list, err := uc.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestProductUseCase_Create(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	branches := usecase.NewBranchUseCase(store)
	uc := usecase.NewProductUseCase(store)

	b, err := branches.Create(ctx, dto.CreateBranchRequest{Name: "Centro"})
	require.NoError(t, err)

	p, err := uc.Create(ctx, dto.CreateProductRequest{BranchID: &b.ID, SKU: "A-1", Name: "Arroz", InitialQuantity: 10, MinStock: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Quantity)
	assert.Equal(t, int64(10), p.InitialQuantity)
	assert.True(t, p.LowStock)

	t.Run("sku duplicado en la misma sucursal", func(t *testing.T) {
		_, err := uc.Create(ctx, dto.CreateProductRequest{BranchID: &b.ID, SKU: "A-1", Name: "Otro"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})
	t.Run("mismo sku como compartido", func(t *testing.T) {
		_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "A-1", Name: "Arroz general"})
		assert.NoError(t, err)
	})
	t.Run("sucursal inexistente", func(t *testing.T) {
		missing := int64(404)
		_, err := uc.Create(ctx, dto.CreateProductRequest{BranchID: &missing, SKU: "B-1", Name: "X"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("precio negativo", func(t *testing.T) {
		_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "C-1", Name: "X", SalePrice: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("cantidad negativa", func(t *testing.T) {
		_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "D-1", Name: "X", InitialQuantity: -3})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestProductUseCase_UpdateKeepsQuantity(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewStore())

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "A-1", Name: "Arroz", InitialQuantity: 7})
	require.NoError(t, err)

	name := "Arroz 1kg"
	price := decimal.RequireFromString("3200.00")
	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, SalePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.True(t, price.Equal(out.SalePrice))
	assert.Equal(t, int64(7), out.Quantity)

	_, err = uc.Update(ctx, 999, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_ListIncludesShared(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	branches := usecase.NewBranchUseCase(store)
	uc := usecase.NewProductUseCase(store)

	b1, err := branches.Create(ctx, dto.CreateBranchRequest{Name: "Centro"})
	require.NoError(t, err)
	b2, err := branches.Create(ctx, dto.CreateBranchRequest{Name: "Norte"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{BranchID: &b1.ID, SKU: "A", Name: "A"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{BranchID: &b2.ID, SKU: "B", Name: "B"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "S", Name: "Compartido"})
	require.NoError(t, err)

	list, err := uc.List(ctx, &b1.ID, 20, 0)
	require.NoError(t, err)
	skus := make([]string, 0, len(list.Items))
	for _, it := range list.Items {
		skus = append(skus, it.SKU)
	}
	assert.ElementsMatch(t, []string{"A", "S"}, skus)

	all, err := uc.List(ctx, nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
}
