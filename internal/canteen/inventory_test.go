package canteen

import (
	"canteen-service/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindIngredient(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, Name: "Картофель"},
		{ID: 2, Name: "Зелёный лук"},
		{ID: 3, Name: "Лук"},
		{ID: 4, Name: "Молоко"},
	}

	tests := []struct {
		name string
		want int
	}{
		{"картофель", 0},
		{"КАРТОФЕЛЬ молодой", 0},
		{"лук", 1},
		{"молоко", 3},
		{"мол", 3},
		{"рыба", -1},
		{"  ", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindIngredient(items, tt.name))
		})
	}
}

func TestConsumptionAmount(t *testing.T) {
	tests := []struct {
		unit     string
		servings int
		want     string
	}{
		{"кг", 1, "0.1"},
		{"kg", 3, "0.3"},
		{"л", 1, "0.1"},
		{"L", 2, "0.2"},
		{"г", 1, "100"},
		{"g", 2, "200"},
		{"мл", 1, "0.1"},
		{"mL", 2, "0.2"},
		{"ml", 1, "0.1"},
		{"шт", 4, "4"},
		{"", 1, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, ConsumptionAmount(tt.unit, tt.servings).String())
		})
	}
}

func TestConsumeForMenuItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	potato := f.addStock(t, "Картофель", "кг", 50, 10)
	milk := f.addStock(t, "Молоко", "мл", 150, 100)
	dish := f.addDish(t, "Пюре", models.Lunch, 90, "картофель", "молоко", "соль")

	report, err := f.svc.ConsumeForMenuItem(ctx, f.cook, dish.ID, 1)
	require.NoError(t, err)
	require.Len(t, report, 3)

	assert.Equal(t, Consumption{
		Ingredient: "картофель", Found: true, ItemID: potato.ID, Name: "Картофель", Unit: "кг",
		Before: 50, After: 49.9, Consumed: 0.1, LowStock: false,
	}, report[0])

	assert.Equal(t, Consumption{
		Ingredient: "молоко", Found: true, ItemID: milk.ID, Name: "Молоко", Unit: "мл",
		Before: 150, After: 149.9, Consumed: 0.1, LowStock: false,
	}, report[1])

	assert.Equal(t, Consumption{Ingredient: "соль"}, report[2])

	assert.Equal(t, 49.9, f.stock(t, potato.ID))
	assert.Equal(t, 149.9, f.stock(t, milk.ID))
}

func TestConsumeClampsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	eggs := f.addStock(t, "Яйца", "шт", 2, 10)
	dish := f.addDish(t, "Омлет", models.Breakfast, 85, "яйца")

	report, err := f.svc.ConsumeForMenuItem(ctx, f.cook, dish.ID, 5)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, 0.0, report[0].After)
	assert.Equal(t, 2.0, report[0].Consumed)
	assert.True(t, report[0].LowStock)
	assert.Equal(t, 0.0, f.stock(t, eggs.ID))
}

func TestConsumeRoundsToTwoDecimals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	flour := f.addStock(t, "Мука", "кг", 0.333, 1)
	dish := f.addDish(t, "Блины", models.Breakfast, 60, "мука")

	report, err := f.svc.ConsumeForMenuItem(ctx, f.cook, dish.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.23, report[0].After)
	assert.Equal(t, 0.1, report[0].Consumed)
	assert.Equal(t, 0.23, f.stock(t, flour.ID))
}

func TestConsumeForMenuItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Суп", models.Lunch, 120)

	_, err := f.svc.ConsumeForMenuItem(ctx, f.cook, dish.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ConsumeForMenuItem(ctx, f.cook, 999, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = f.svc.ConsumeForMenuItem(ctx, f.student, dish.ID, 1)
	assert.ErrorIs(t, err, ErrForbidden)

	report, err := f.svc.ConsumeForMenuItem(ctx, f.cook, dish.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestAddAndUpdateInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.AddInventoryItem(ctx, f.cook, NewInventoryItem{Name: " Сыр ", Quantity: 4, Unit: "кг"})
	require.NoError(t, err)
	assert.Equal(t, "Сыр", item.Name)
	assert.Equal(t, float64(DefaultMinimum), item.Minimum)

	zero := 0.0
	other, err := f.svc.AddInventoryItem(ctx, f.cook, NewInventoryItem{Name: "Соль", Quantity: 1, Minimum: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0.0, other.Minimum)

	low, err := f.svc.LowStock(ctx, f.cook)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, item.ID, low[0].ID)

	updated, err := f.svc.UpdateInventoryItem(ctx, f.cook, item.ID, InventoryUpdate{Quantity: 20, Comment: "поставка"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Quantity)
	assert.Equal(t, "поставка", updated.Comment)

	_, err = f.svc.UpdateInventoryItem(ctx, f.cook, 999, InventoryUpdate{Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = f.svc.UpdateInventoryItem(ctx, f.cook, item.ID, InventoryUpdate{Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.svc.AddInventoryItem(ctx, f.student, NewInventoryItem{Name: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
}
