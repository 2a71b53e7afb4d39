// Package canteen holds the business rules of the school canteen: the balance
// ledger, ingredient consumption, the order lifecycle and the purchase-request
// workflow, plus the read-side reports built on the same records.
//
// Every mutating entry point runs inside a single Store transaction, so a
// failed operation never leaves a partial write behind.
package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"log/slog"
	"slices"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
	clockLayout = "15:04"
)

type Service struct {
	store  repository.Store
	menu   repository.MenuRepository
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMenuRepository replaces the menu repository used outside transactions,
// typically with a caching decorator over the store's own.
func WithMenuRepository(menu repository.MenuRepository) Option {
	return func(s *Service) { s.menu = menu }
}

func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		menu:   store.Repos().Menu,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   int64
	Role models.Role
}

func (a Actor) require(roles ...models.Role) error {
	if a.ID <= 0 || !slices.Contains(roles, a.Role) {
		return ErrForbidden
	}
	return nil
}

// Ping checks the underlying store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
