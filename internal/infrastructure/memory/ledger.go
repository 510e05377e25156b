package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type movementRepo struct{ s *state }

var _ repository.MovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Append(_ context.Context, m *entity.MovementEntry) error {
	m.ID = r.s.next("movements")
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *movementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	list := make([]*entity.MovementEntry, 0)
	for _, m := range slices.Backward(r.s.movements) {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.BranchID != nil && !sameID(m.BranchID, filter.BranchID) {
			continue
		}
		if filter.ReferenceNumber != "" && m.ReferenceNumber != filter.ReferenceNumber {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *movementRepo) TotalsByProduct(_ context.Context) (map[int64]repository.MovementTotals, error) {
	out := make(map[int64]repository.MovementTotals)
	for _, m := range r.s.movements {
		t := out[m.ProductID]
		if m.Type == entity.MovementIn {
			t.In += m.Quantity
		} else {
			t.Out += m.Quantity
		}
		out[m.ProductID] = t
	}
	return out, nil
}

type accountEntryRepo struct{ s *state }

var _ repository.AccountEntryRepository = (*accountEntryRepo)(nil)

func (r *accountEntryRepo) Append(_ context.Context, e *entity.AccountEntry) error {
	e.ID = r.s.next("account_entries")
	cp := *e
	r.s.accountEntries = append(r.s.accountEntries, &cp)
	return nil
}

func (r *accountEntryRepo) ListByAccount(_ context.Context, accountID int64, limit, offset int) ([]*entity.AccountEntry, error) {
	list := make([]*entity.AccountEntry, 0)
	for _, e := range slices.Backward(r.s.accountEntries) {
		if e.AccountID == accountID {
			cp := *e
			list = append(list, &cp)
		}
	}
	return page(list, limit, offset), nil
}

func (r *accountEntryRepo) SumByAccount(_ context.Context) (map[int64]decimal.Decimal, error) {
	out := make(map[int64]decimal.Decimal)
	for _, e := range r.s.accountEntries {
		out[e.AccountID] = out[e.AccountID].Add(e.Delta)
	}
	return out, nil
}
