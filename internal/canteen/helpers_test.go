package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"canteen-service/internal/repository/memory"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.January, 15, 12, 30, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	store   *memory.Store
	clock   *time.Time
	student Actor
	other   Actor
	cook    Actor
	admin   Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	now := testNow
	f := &fixture{store: store, clock: &now}
	f.svc = New(store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return *f.clock }),
	)

	f.student = f.addUser(t, "ivanov", models.RoleStudent, 1500)
	f.other = f.addUser(t, "sidorov", models.RoleStudent, 1500)
	f.cook = f.addUser(t, "petrov", models.RoleCook, 0)
	f.admin = f.addUser(t, "admin", models.RoleAdmin, 0)
	return f
}

func (f *fixture) addUser(t *testing.T, username string, role models.Role, balance int64) Actor {
	t.Helper()
	u := &models.User{Username: username, Role: role, Balance: balance, Class: "10А"}
	require.NoError(t, f.store.Repos().Users.Create(context.Background(), u))
	return Actor{ID: u.ID, Role: role}
}

func (f *fixture) addDish(t *testing.T, name string, typ models.MealType, price int64, contains ...string) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Date:      testNow.Format(dateLayout),
		Type:      typ,
		Name:      name,
		Price:     price,
		Contains:  contains,
		Available: true,
	}
	require.NoError(t, f.store.Repos().Menu.Create(context.Background(), item))
	return item
}

func (f *fixture) addStock(t *testing.T, name, unit string, quantity, minimum float64) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{Name: name, Unit: unit, Quantity: quantity, Minimum: minimum}
	require.NoError(t, f.store.Repos().Inventory.Create(context.Background(), item))
	return item
}

func (f *fixture) user(t *testing.T, a Actor) *models.User {
	t.Helper()
	u, err := f.store.Repos().Users.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	return u
}

func (f *fixture) payments(t *testing.T, a Actor) []models.Payment {
	t.Helper()
	p, err := f.store.Repos().Payments.GetByUserID(context.Background(), a.ID)
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id int64) float64 {
	t.Helper()
	item, err := f.store.Repos().Inventory.GetByID(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity
}

// failingPayments makes every payment insert fail so tests can observe
// rollback of the surrounding operation.
type failingPayments struct {
	repository.PaymentRepository
}

var errPaymentsDown = errors.New("payments unavailable")

func (failingPayments) Create(context.Context, *models.Payment) error {
	return errPaymentsDown
}

type failingStore struct {
	*memory.Store
}

func (s failingStore) InTx(ctx context.Context, fn repository.TxFunc) error {
	return s.Store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		r.Payments = failingPayments{r.Payments}
		return fn(ctx, r)
	})
}
