package canteen

import (
	"canteen-service/internal/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := f.addDish(t, "Суп", models.Lunch, 120)
	porridge := f.addDish(t, "Каша", models.Breakfast, 70)

	*f.clock = testNow.AddDate(0, 0, -1)
	_, err := f.svc.CreateOrder(ctx, f.student, soup.ID)
	require.NoError(t, err)

	*f.clock = testNow
	_, err = f.svc.CreateOrder(ctx, f.student, porridge.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, f.other, soup.ID)
	require.NoError(t, err)
	_, err = f.svc.RechargeBalance(ctx, f.student, 500)
	require.NoError(t, err)

	report, err := f.svc.Report(ctx, f.admin)
	require.NoError(t, err)

	assert.Equal(t, []DateCount{{"2025-01-14", 1}, {"2025-01-15", 2}}, report.AttendanceByDay)
	assert.Equal(t, []ClassCount{{"10А", 3}}, report.ClassAttendance)
	assert.Equal(t, 3, report.TotalOrders)
	assert.Equal(t, int64(70+120), report.TodayRevenue)

	_, err = f.svc.Report(ctx, f.cook)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdminSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := f.addDish(t, "Суп", models.Lunch, 120)

	_, err := f.svc.CreateOrder(ctx, f.student, soup.ID)
	require.NoError(t, err)
	_, err = f.svc.CreatePurchaseRequest(ctx, f.cook, NewPurchaseRequest{Product: "Соль", Quantity: 1})
	require.NoError(t, err)

	summary, err := f.svc.AdminSummary(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, &AdminSummary{
		TotalStudents:   2,
		TotalBalance:    1380 + 1500,
		PendingRequests: 1,
		TodayAttendance: 1,
	}, summary)
}

func TestCookStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addStock(t, "Лук", "кг", 2, 3)
	f.addStock(t, "Картофель", "кг", 50, 10)
	soup := f.addDish(t, "Суп", models.Lunch, 10)
	porridge := f.addDish(t, "Каша", models.Breakfast, 10)

	for day := 8; day >= 0; day-- {
		*f.clock = testNow.AddDate(0, 0, -day)
		_, err := f.svc.CreateOrder(ctx, f.student, soup.ID)
		require.NoError(t, err)
	}
	*f.clock = testNow
	_, err := f.svc.CreateOrder(ctx, f.student, porridge.ID)
	require.NoError(t, err)
	_, err = f.svc.IssueMeal(ctx, f.cook, IssueRequest{StudentID: f.other.ID, MealType: models.Breakfast})
	require.NoError(t, err)

	stats, err := f.svc.CookStatistics(ctx, f.cook)
	require.NoError(t, err)

	assert.Equal(t, 11, stats.TotalOrders)
	require.Len(t, stats.Days, statisticsDays)
	assert.Equal(t, DayMeals{Date: "2025-01-15", Breakfast: 2, Lunch: 1, Total: 3}, stats.Days[0])
	assert.Equal(t, testNow.AddDate(0, 0, -6).Format(time.DateOnly), stats.Days[6].Date)

	require.Len(t, stats.PopularDishes, 2)
	assert.Equal(t, DishCount{MenuItemID: soup.ID, Name: "Суп", Count: 9}, stats.PopularDishes[0])
	assert.Equal(t, DishCount{MenuItemID: porridge.ID, Name: "Каша", Count: 1}, stats.PopularDishes[1])

	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, "Лук", stats.LowStock[0].Name)
}
