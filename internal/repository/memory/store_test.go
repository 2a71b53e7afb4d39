package memory

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTxCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		u := &models.User{Username: "ivanov", Role: models.RoleStudent, Balance: 1500}
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		_, err := r.Users.AddBalance(ctx, u.ID, -120)
		return err
	})
	require.NoError(t, err)

	u, err := s.Repos().Users.GetByUsername(ctx, "ivanov")
	require.NoError(t, err)
	assert.Equal(t, int64(1380), u.Balance)
	assert.Equal(t, int64(1), u.ID)
}

func TestInTxDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &models.User{Username: "ivanov", Role: models.RoleStudent, Balance: 1500}
	require.NoError(t, s.Repos().Users.Create(ctx, u))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Users.AddBalance(ctx, u.ID, -500); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, &models.Payment{UserID: u.ID, Amount: 500, Type: models.PaymentSingle}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.Balance)

	payments, err := s.Repos().Payments.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestIDsAreMonotonicAfterDelete(t *testing.T) {
	ctx := context.Background()
	reviews := New().Repos().Reviews

	first := &models.Review{StudentID: 1, MenuItemID: 1, Rating: 5, Comment: "ok"}
	require.NoError(t, reviews.Create(ctx, first))
	require.NoError(t, reviews.Delete(ctx, first.ID))

	second := &models.Review{StudentID: 1, MenuItemID: 2, Rating: 4, Comment: "ok"}
	require.NoError(t, reviews.Create(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}

func TestDuplicatePurchaseRejected(t *testing.T) {
	ctx := context.Background()
	orders := New().Repos().Orders
	item := int64(7)

	require.NoError(t, orders.Create(ctx, &models.Order{StudentID: 1, MenuItemID: &item, Date: "2025-01-15", Status: models.StatusOrdered}))
	err := orders.Create(ctx, &models.Order{StudentID: 1, MenuItemID: &item, Date: "2025-01-15", Status: models.StatusOrdered})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	cook := int64(3)
	require.NoError(t, orders.Create(ctx, &models.Order{StudentID: 1, MenuItemID: &item, Date: "2025-01-15", Status: models.StatusIssued, IssuedBy: &cook}))

	count, err := orders.CountByStudentMonth(ctx, 1, "2025-01")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInventoryListedInIDOrder(t *testing.T) {
	ctx := context.Background()
	inv := New().Repos().Inventory

	for _, name := range []string{"Картофель", "Курица", "Молоко"} {
		require.NoError(t, inv.Create(ctx, &models.InventoryItem{Name: name, Quantity: 10}))
	}

	items, err := inv.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Картофель", items[0].Name)
	assert.Equal(t, "Молоко", items[2].Name)

	_, err = inv.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	ctx := context.Background()
	users := New().Repos().Users

	u := &models.User{Username: "a", Role: models.RoleStudent, Allergies: []string{"орехи"}}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Allergies[0] = "changed"

	again, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"орехи"}, again.Allergies)
}
