package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

type documentRepo struct{ s *state }

var _ repository.DocumentRepository = (*documentRepo)(nil)

func (r *documentRepo) NextID(_ context.Context) (int64, error) {
	return r.s.next("documents"), nil
}

func (r *documentRepo) Create(_ context.Context, d *entity.Document) error {
	id := d.ID
	if id == 0 {
		id = r.s.next("documents")
	}
	number := d.Number
	if number == "" {
		number = entity.DocumentNumber(d.Kind, id)
		for r.numberTaken(d.Kind, number) {
			id = r.s.next("documents")
			number = entity.DocumentNumber(d.Kind, id)
		}
	}
	for _, existing := range r.s.documents {
		if existing.ID == id || (existing.Kind == d.Kind && existing.Number == number) {
			return domain.ErrDuplicate
		}
	}
	d.ID = id
	d.Number = number
	r.s.documents[d.ID] = copyDocument(d)
	return nil
}

func (r *documentRepo) numberTaken(kind entity.DocumentKind, number string) bool {
	for _, existing := range r.s.documents {
		if existing.Kind == kind && existing.Number == number {
			return true
		}
	}
	return false
}

func (r *documentRepo) GetByID(_ context.Context, id int64) (*entity.Document, error) {
	d, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	return copyDocument(d), nil
}

func (r *documentRepo) GetByKindAndNumber(_ context.Context, kind entity.DocumentKind, number string) (*entity.Document, error) {
	for _, d := range r.s.documents {
		if d.Kind == kind && d.Number == number {
			return copyDocument(d), nil
		}
	}
	return nil, nil
}

func (r *documentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.documents, id)
	return nil
}

func (r *documentRepo) List(_ context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	list := sortedDesc(r.s.documents, func(d *entity.Document) bool {
		if filter.Kind != "" && d.Kind != filter.Kind {
			return false
		}
		if filter.BranchID != nil && d.BranchID != *filter.BranchID {
			return false
		}
		return filter.AccountID == nil || sameID(d.AccountID, filter.AccountID)
	})
	out := make([]*entity.Document, 0, len(list))
	for _, d := range page(list, filter.Limit, filter.Offset) {
		out = append(out, copyDocument(d))
	}
	return out, nil
}

func copyDocument(d *entity.Document) *entity.Document {
	cp := *d
	cp.Lines = slices.Clone(d.Lines)
	if d.AccountID != nil {
		id := *d.AccountID
		cp.AccountID = &id
	}
	return &cp
}
