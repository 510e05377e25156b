package memory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

type transferRepo struct{ s *state }

var _ repository.TransferRepository = (*transferRepo)(nil)

func (r *transferRepo) Create(_ context.Context, t *entity.BranchTransfer) error {
	t.ID = r.s.next("transfers")
	if t.Number == "" {
		t.Number = entity.TransferNumber(t.ID)
	}
	r.s.transfers[t.ID] = copyTransfer(t)
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, id int64) (*entity.BranchTransfer, error) {
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return copyTransfer(t), nil
}

func (r *transferRepo) GetByNumber(_ context.Context, number string) (*entity.BranchTransfer, error) {
	for _, t := range r.s.transfers {
		if t.Number == number {
			return copyTransfer(t), nil
		}
	}
	return nil, nil
}

func (r *transferRepo) Update(_ context.Context, t *entity.BranchTransfer) error {
	if _, ok := r.s.transfers[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.transfers[t.ID] = copyTransfer(t)
	return nil
}

func (r *transferRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.transfers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.transfers, id)
	return nil
}

func (r *transferRepo) List(_ context.Context, filter repository.TransferFilter) ([]*entity.BranchTransfer, error) {
	list := sortedDesc(r.s.transfers, func(t *entity.BranchTransfer) bool {
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		if filter.BranchID == nil {
			return true
		}
		b := *filter.BranchID
		switch filter.Direction {
		case repository.TransferDirectionSent:
			return t.FromBranchID == b
		case repository.TransferDirectionReceived:
			return t.ToBranchID == b
		default:
			return t.FromBranchID == b || t.ToBranchID == b
		}
	})
	out := make([]*entity.BranchTransfer, 0, len(list))
	for _, t := range page(list, filter.Limit, filter.Offset) {
		out = append(out, copyTransfer(t))
	}
	return out, nil
}

func copyTransfer(t *entity.BranchTransfer) *entity.BranchTransfer {
	cp := *t
	cp.Items = make([]entity.TransferItem, len(t.Items))
	for i, item := range t.Items {
		cp.Items[i] = item
		if item.DestProductID != nil {
			id := *item.DestProductID
			cp.Items[i].DestProductID = &id
		}
	}
	return &cp
}
