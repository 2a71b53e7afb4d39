// Package memory is an in-process Store. All access goes through one mutex;
// InTx works on a private copy of the data and publishes it only when the
// callback succeeds.
package memory

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"maps"
	"slices"
	"sync"
)

var _ repository.Store = (*Store)(nil)

type state struct {
	users     map[int64]models.User
	menu      map[int64]models.MenuItem
	orders    map[int64]models.Order
	inventory map[int64]models.InventoryItem
	payments  map[int64]models.Payment
	requests  map[int64]models.PurchaseRequest
	reviews   map[int64]models.Review

	seq sequences
}

// sequences hold the last id handed out per collection. Ids are never reused,
// deletes included.
type sequences struct {
	users, menu, orders, inventory, payments, requests, reviews int64
}

func newState() *state {
	return &state{
		users:     map[int64]models.User{},
		menu:      map[int64]models.MenuItem{},
		orders:    map[int64]models.Order{},
		inventory: map[int64]models.InventoryItem{},
		payments:  map[int64]models.Payment{},
		requests:  map[int64]models.PurchaseRequest{},
		reviews:   map[int64]models.Review{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:     maps.Clone(s.users),
		menu:      maps.Clone(s.menu),
		orders:    maps.Clone(s.orders),
		inventory: maps.Clone(s.inventory),
		payments:  maps.Clone(s.payments),
		requests:  maps.Clone(s.requests),
		reviews:   maps.Clone(s.reviews),
		seq:       s.seq,
	}
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// source hands a repository the state it should operate on.
type source interface {
	with(fn func(st *state) error) error
}

type lockedSource struct {
	s *Store
}

func (l lockedSource) with(fn func(st *state) error) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return fn(l.s.st)
}

type txSource struct {
	st *state
}

func (t txSource) with(fn func(st *state) error) error {
	return fn(t.st)
}

func repositories(src source) repository.Repositories {
	return repository.Repositories{
		Users:     &userRepo{src: src},
		Menu:      &menuRepo{src: src},
		Orders:    &orderRepo{src: src},
		Inventory: &inventoryRepo{src: src},
		Payments:  &paymentRepo{src: src},
		Requests:  &requestRepo{src: src},
		Reviews:   &reviewRepo{src: src},
	}
}

func (s *Store) Repos() repository.Repositories {
	return repositories(lockedSource{s: s})
}

// InTx holds the store lock for the whole callback, so the repositories passed
// to fn are the only ones that may be used inside it.
func (s *Store) InTx(ctx context.Context, fn repository.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	draft := s.st.clone()
	if err := fn(ctx, repositories(txSource{st: draft})); err != nil {
		return err
	}

	s.st = draft
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

func sorted[T any](m map[int64]T, keep func(T) bool) []T {
	ids := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}
