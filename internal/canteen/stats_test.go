package canteen

import (
	"canteen-service/internal/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyStatsEmpty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.MonthlyStats(context.Background(), f.student.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, &MonthlyStats{}, stats)

	_, err = f.svc.MonthlyStats(context.Background(), 999, testNow)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMonthlyStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := f.addDish(t, "Суп", models.Lunch, 120)
	porridge := f.addDish(t, "Каша", models.Breakfast, 70)
	sandwich := f.addDish(t, "Бутерброд", models.Breakfast, 65)

	// last month: counted for last meal only
	*f.clock = time.Date(2024, time.December, 20, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.CreateOrder(ctx, f.student, soup.ID)
	require.NoError(t, err)

	*f.clock = time.Date(2025, time.January, 10, 8, 15, 0, 0, time.UTC)
	_, err = f.svc.CreateOrder(ctx, f.student, porridge.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, f.student, sandwich.ID)
	require.NoError(t, err)
	_, err = f.svc.RechargeBalance(ctx, f.student, 1000)
	require.NoError(t, err)
	_, err = f.svc.Pay(ctx, f.student, PayRequest{Amount: 300, Type: models.PaymentSubscription})
	require.NoError(t, err)
	_, err = f.svc.IssueMeal(ctx, f.cook, IssueRequest{StudentID: f.student.ID, MealType: models.Lunch})
	require.NoError(t, err)

	stats, err := f.svc.MonthlyStats(ctx, f.student.ID, testNow)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.MealsThisMonth)
	assert.Equal(t, int64(70+65+300), stats.SpentThisMonth)
	// (70 + 65 + 0) / 3 = 45
	assert.Equal(t, int64(45), stats.AvgCost)
	require.NotNil(t, stats.LastMealAt)
	assert.Equal(t, time.Date(2025, time.January, 10, 8, 15, 0, 0, time.UTC), *stats.LastMealAt)
	assert.False(t, stats.LastMealToday)

	sameDay, err := f.svc.MonthlyStats(ctx, f.student.ID, *f.clock)
	require.NoError(t, err)
	assert.True(t, sameDay.LastMealToday)
}

func TestMonthlyStatsRoundsHalfToEven(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addDish(t, "A", models.Lunch, 70)
	b := f.addDish(t, "B", models.Lunch, 75)

	_, err := f.svc.CreateOrder(ctx, f.student, a.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, f.student, b.ID)
	require.NoError(t, err)

	stats, err := f.svc.MonthlyStats(ctx, f.student.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(72), stats.AvgCost)
	assert.True(t, stats.LastMealToday)
}

func TestActiveSubscriptionCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	*f.clock = testNow.AddDate(0, 0, -40)
	_, err := f.svc.Pay(ctx, f.student, PayRequest{Amount: 100, Type: models.PaymentSubscription})
	require.NoError(t, err)

	*f.clock = testNow.AddDate(0, 0, -10)
	_, err = f.svc.Pay(ctx, f.student, PayRequest{Amount: 100, Type: models.PaymentSubscription})
	require.NoError(t, err)
	_, err = f.svc.Pay(ctx, f.student, PayRequest{Amount: 100, Type: models.PaymentSingle})
	require.NoError(t, err)

	*f.clock = testNow
	count, err := f.svc.ActiveSubscriptionCount(ctx, f.student.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = f.svc.ActiveSubscriptionCount(ctx, f.student.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMonthlyStatsDefaultsToServiceClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := f.addDish(t, "Суп", models.Lunch, 120)

	*f.clock = time.Date(2024, time.December, 20, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.CreateOrder(ctx, f.student, soup.ID)
	require.NoError(t, err)

	stats, err := f.svc.MonthlyStats(ctx, f.student.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MealsThisMonth)
	assert.Equal(t, int64(120), stats.SpentThisMonth)
	assert.True(t, stats.LastMealToday)

	*f.clock = time.Date(2025, time.January, 2, 9, 0, 0, 0, time.UTC)
	stats, err = f.svc.MonthlyStats(ctx, f.student.ID, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, stats.MealsThisMonth)
	assert.False(t, stats.LastMealToday)
}
