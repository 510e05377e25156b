package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// BranchUseCase casos de uso para sucursales.
type BranchUseCase struct {
	txRunner inventory.TxRunner
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(txRunner inventory.TxRunner) *BranchUseCase {
	return &BranchUseCase{txRunner: txRunner}
}

// Create crea una nueva sucursal.
func (uc *BranchUseCase) Create(ctx context.Context, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	branch := &entity.Branch{
		Name:      name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		return repos.Branches.Create(ctx, branch)
	})
	if err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sucursal por ID.
func (uc *BranchUseCase) GetByID(ctx context.Context, id int64) (*dto.BranchResponse, error) {
	var branch *entity.Branch
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		branch, err = repos.Branches.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get branch: %w", err)
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	return toBranchResponse(branch), nil
}

// List lista sucursales con paginación.
func (uc *BranchUseCase) List(ctx context.Context, limit, offset int) (*dto.BranchListResponse, error) {
	var list []*entity.Branch
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Branches.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
