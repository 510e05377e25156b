package memory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type accountRepo struct{ s *state }

var _ repository.AccountRepository = (*accountRepo)(nil)

func (r *accountRepo) Create(_ context.Context, a *entity.Account) error {
	a.ID = r.s.next("accounts")
	cp := *a
	r.s.accounts[a.ID] = &cp
	return nil
}

func (r *accountRepo) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *accountRepo) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *a
	cp.Balance = balance
	r.s.accounts[id] = &cp
	return nil
}

func (r *accountRepo) UpdateCreditLimit(_ context.Context, id int64, limit decimal.Decimal) error {
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *a
	cp.CreditLimit = limit
	r.s.accounts[id] = &cp
	return nil
}

func (r *accountRepo) List(_ context.Context, accountType entity.AccountType, limit, offset int) ([]*entity.Account, error) {
	list := sortedDesc(r.s.accounts, func(a *entity.Account) bool {
		return accountType == "" || a.Type == accountType
	})
	out := make([]*entity.Account, 0, len(list))
	for _, a := range page(list, limit, offset) {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

type voucherRepo struct{ s *state }

var _ repository.VoucherRepository = (*voucherRepo)(nil)

func (r *voucherRepo) Create(_ context.Context, v *entity.Voucher) error {
	if v.VoucherNumber != "" && r.numberTaken(v.VoucherNumber) {
		return domain.ErrDuplicate
	}
	id := r.s.next("vouchers")
	number := v.VoucherNumber
	if number == "" {
		// un número manual pudo ocupar el consecutivo: se salta al siguiente ID
		number = entity.VoucherNumber(v.Kind, id)
		for r.numberTaken(number) {
			id = r.s.next("vouchers")
			number = entity.VoucherNumber(v.Kind, id)
		}
	}
	v.ID = id
	v.VoucherNumber = number
	cp := *v
	r.s.vouchers[v.ID] = &cp
	return nil
}

func (r *voucherRepo) numberTaken(number string) bool {
	for _, existing := range r.s.vouchers {
		if existing.VoucherNumber == number {
			return true
		}
	}
	return false
}

func (r *voucherRepo) GetByID(_ context.Context, id int64) (*entity.Voucher, error) {
	v, ok := r.s.vouchers[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *voucherRepo) GetByNumber(_ context.Context, number string) (*entity.Voucher, error) {
	for _, v := range r.s.vouchers {
		if v.VoucherNumber == number {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *voucherRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.vouchers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.vouchers, id)
	return nil
}

func (r *voucherRepo) List(_ context.Context, filter repository.VoucherFilter) ([]*entity.Voucher, error) {
	list := sortedDesc(r.s.vouchers, func(v *entity.Voucher) bool {
		if filter.AccountID != nil && v.AccountID != *filter.AccountID {
			return false
		}
		return filter.Kind == "" || v.Kind == filter.Kind
	})
	out := make([]*entity.Voucher, 0, len(list))
	for _, v := range page(list, filter.Limit, filter.Offset) {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}
