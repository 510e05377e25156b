// Package memory implementa los repositorios en memoria (desarrollo y tests).
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// Store guarda todo el estado en memoria. Run serializa las unidades de trabajo con un mutex global
// y trabaja sobre una copia del estado que solo se publica si fn termina sin error.
// Las entidades guardadas nunca se modifican en sitio: cada escritura reemplaza el puntero,
// por eso la copia del estado solo duplica mapas y slices.
type Store struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	seq            map[string]int64
	branches       map[int64]*entity.Branch
	products       map[int64]*entity.Product
	movements      []*entity.MovementEntry
	transfers      map[int64]*entity.BranchTransfer
	accounts       map[int64]*entity.Account
	accountEntries []*entity.AccountEntry
	vouchers       map[int64]*entity.Voucher
	documents      map[int64]*entity.Document
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: &state{
		seq:       make(map[string]int64),
		branches:  make(map[int64]*entity.Branch),
		products:  make(map[int64]*entity.Product),
		transfers: make(map[int64]*entity.BranchTransfer),
		accounts:  make(map[int64]*entity.Account),
		vouchers:  make(map[int64]*entity.Voucher),
		documents: make(map[int64]*entity.Document),
	}}
}

func (s *state) clone() *state {
	return &state{
		seq:            maps.Clone(s.seq),
		branches:       maps.Clone(s.branches),
		products:       maps.Clone(s.products),
		movements:      slices.Clone(s.movements),
		transfers:      maps.Clone(s.transfers),
		accounts:       maps.Clone(s.accounts),
		accountEntries: slices.Clone(s.accountEntries),
		vouchers:       maps.Clone(s.vouchers),
		documents:      maps.Clone(s.documents),
	}
}

func (s *state) next(collection string) int64 {
	s.seq[collection]++
	return s.seq[collection]
}

func (s *state) repos() repository.Repos {
	return repository.Repos{
		Branches:       &branchRepo{s},
		Products:       &productRepo{s},
		Movements:      &movementRepo{s},
		Transfers:      &transferRepo{s},
		Accounts:       &accountRepo{s},
		AccountEntries: &accountEntryRepo{s},
		Vouchers:       &voucherRepo{s},
		Documents:      &documentRepo{s},
	}
}

// Run ejecuta fn como una unidad de trabajo atómica.
func (st *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	work := st.state.clone()
	if err := fn(work.repos()); err != nil {
		// Rollback: se descarta la copia
		return err
	}
	st.state = work
	return nil
}

// View ejecuta fn sobre el estado publicado, solo lectura.
func (st *Store) View(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	return fn(st.state.repos())
}

// page aplica limit/offset a una lista ya ordenada. limit <= 0 = sin límite.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// sortedDesc devuelve los valores del mapa ordenados por ID descendente (más recientes primero).
func sortedDesc[T any](m map[int64]*T, keep func(*T) bool) []*T {
	keys := slices.Sorted(maps.Keys(m))
	slices.Reverse(keys)
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		if keep == nil || keep(m[k]) {
			out = append(out, m[k])
		}
	}
	return out
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
