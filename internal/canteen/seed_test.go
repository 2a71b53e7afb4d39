package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store, WithClock(func() time.Time { return testNow }))

	first, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Users: 3, MenuItems: 42, Inventory: 5}, first)

	second, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{}, second)

	student, err := svc.Login(ctx, "ivanov", "ivanov123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.Equal(t, int64(StartingBalance), student.Balance)

	lunches, err := svc.ListMenu(ctx, models.MenuFilter{Date: "2025-01-21", Type: models.Lunch})
	require.NoError(t, err)
	assert.Len(t, lunches, 3)
}

func TestSeededScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store, WithClock(func() time.Time { return testNow }))
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	student, err := svc.Login(ctx, "ivanov", "ivanov123")
	require.NoError(t, err)
	cook, err := svc.Login(ctx, "petrov", "petrov123")
	require.NoError(t, err)

	lunches, err := svc.ListMenu(ctx, models.MenuFilter{Date: "2025-01-15", Type: models.Lunch})
	require.NoError(t, err)
	cutlet := lunches[1]
	require.Equal(t, "Котлета с картофельным пюре", cutlet.Name)

	order, err := svc.CreateOrder(ctx, Actor{ID: student.ID, Role: student.Role}, cutlet.ID)
	require.NoError(t, err)

	result, err := svc.MarkServed(ctx, Actor{ID: cook.ID, Role: cook.Role}, order.ID)
	require.NoError(t, err)
	require.Len(t, result.Consumption, 3)

	assert.False(t, result.Consumption[0].Found, "мясо")
	assert.Equal(t, "Картофель", result.Consumption[1].Name)
	assert.Equal(t, 49.9, result.Consumption[1].After)
	assert.Equal(t, "Лук", result.Consumption[2].Name)
	assert.Equal(t, 7.9, result.Consumption[2].After)
	assert.False(t, result.Consumption[2].LowStock)
}
