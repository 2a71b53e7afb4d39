//go:build integration

package repository_test

import (
	"canteen-service/internal/canteen"
	"canteen-service/internal/database"
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupStore(t *testing.T) *repository.PostgresStore {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("canteen"),
		postgres.WithUsername("canteen"),
		postgres.WithPassword("canteen"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.Migrate(ctx, pool, logger))
	// a second run must find nothing to do
	require.NoError(t, database.Migrate(ctx, pool, logger))

	store := repository.NewPostgresStore(pool)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPostgresStore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	repos := store.Repos()

	require.NoError(t, store.Ping(ctx))

	t.Run("users", func(t *testing.T) {
		u := &models.User{Username: "ivanov", Role: models.RoleStudent, Balance: 1500, Allergies: []string{"орехи"}}
		require.NoError(t, repos.Users.Create(ctx, u))
		assert.Positive(t, u.ID)

		err := repos.Users.Create(ctx, &models.User{Username: "ivanov", Role: models.RoleStudent})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		balance, err := repos.Users.AddBalance(ctx, u.ID, -200)
		require.NoError(t, err)
		assert.Equal(t, int64(1300), balance)

		got, err := repos.Users.GetByUsername(ctx, "ivanov")
		require.NoError(t, err)
		assert.Equal(t, []string{"орехи"}, got.Allergies)
		assert.Empty(t, got.Preferences)

		_, err = repos.Users.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("menu filter", func(t *testing.T) {
		for _, item := range []models.MenuItem{
			{Date: "2025-01-15", Type: models.Breakfast, Name: "Каша", Price: 70, Available: true},
			{Date: "2025-01-15", Type: models.Lunch, Name: "Суп", Price: 120, Available: true},
			{Date: "2025-01-16", Type: models.Lunch, Name: "Котлета", Price: 130, Available: true},
		} {
			require.NoError(t, repos.Menu.Create(ctx, &item))
		}

		items, err := repos.Menu.GetAll(ctx, models.MenuFilter{Date: "2025-01-15"})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = repos.Menu.GetAll(ctx, models.MenuFilter{Type: models.Lunch})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Суп", items[0].Name)
		assert.Equal(t, "2025-01-15", items[0].Date)
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
			if err := r.Inventory.Create(ctx, &models.InventoryItem{Name: "Соль", Unit: "кг", Quantity: 1}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		items, err := repos.Inventory.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestServiceOnPostgres(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	now := time.Now()
	svc := canteen.New(store,
		canteen.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		canteen.WithClock(func() time.Time { return now }),
	)

	seeded, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, seeded.Users)

	again, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Users+again.MenuItems+again.Inventory)

	studentUser, err := svc.Login(ctx, "ivanov", "ivanov123")
	require.NoError(t, err)
	cookUser, err := svc.Login(ctx, "petrov", "petrov123")
	require.NoError(t, err)
	student := canteen.Actor{ID: studentUser.ID, Role: studentUser.Role}
	cook := canteen.Actor{ID: cookUser.ID, Role: cookUser.Role}

	menu, err := svc.ListMenu(ctx, models.MenuFilter{Date: now.Format(time.DateOnly), Type: models.Lunch})
	require.NoError(t, err)
	require.NotEmpty(t, menu)
	dish := menu[0]

	order, err := svc.CreateOrder(ctx, student, dish.ID)
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, student, dish.ID)
	assert.ErrorIs(t, err, canteen.ErrDuplicateOrder)

	profile, err := svc.Profile(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, canteen.StartingBalance-dish.Price, profile.Balance)

	issued, err := svc.IssueMeal(ctx, cook, canteen.IssueRequest{StudentID: student.ID, MealType: models.Lunch, MenuItemID: &dish.ID})
	require.NoError(t, err)
	assert.NotNil(t, issued.IssuedBy)

	result, err := svc.MarkServed(ctx, cook, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusServed, result.Order.Status)

	received, err := svc.ConfirmReceived(ctx, student, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReceived, received.Status)

	payments, err := svc.Payments(ctx, student)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentMealPurchase, payments[0].Type)
}
