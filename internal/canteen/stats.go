package canteen

import (
	"canteen-service/internal/models"
	"context"
	"math"
	"strings"
	"time"
)

type MonthlyStats struct {
	MealsThisMonth int   `json:"meals_this_month"`
	SpentThisMonth int64 `json:"spent_this_month"`
	// AvgCost averages order prices, not payments, over the month's meals.
	AvgCost       int64      `json:"avg_cost"`
	LastMealAt    *time.Time `json:"last_meal_at,omitempty"`
	LastMealToday bool       `json:"last_meal_today"`
}

// MonthlyStats summarises a user's meals and spending for the month that
// contains ref. A zero ref means the service clock's current time.
func (s *Service) MonthlyStats(ctx context.Context, userID int64, ref time.Time) (*MonthlyStats, error) {
	if ref.IsZero() {
		ref = s.now()
	}
	repos := s.store.Repos()

	if _, err := repos.Users.GetByID(ctx, userID); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}

	orders, err := repos.Orders.GetByStudentID(ctx, userID)
	if err != nil {
		return nil, err
	}
	payments, err := repos.Payments.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	month := ref.Format(monthLayout)
	stats := &MonthlyStats{}

	var priceSum int64
	var last time.Time
	for _, o := range orders {
		if strings.HasPrefix(o.Date, month) {
			stats.MealsThisMonth++
			priceSum += o.Price
		}
		if at, ok := orderTime(o, ref.Location()); ok && at.After(last) {
			last = at
		}
	}

	for _, p := range payments {
		if p.Type != models.PaymentRecharge && p.Date.In(ref.Location()).Format(monthLayout) == month {
			stats.SpentThisMonth += p.Amount
		}
	}

	if stats.MealsThisMonth > 0 {
		stats.AvgCost = int64(math.RoundToEven(float64(priceSum) / float64(stats.MealsThisMonth)))
	}

	if !last.IsZero() {
		stats.LastMealAt = &last
		stats.LastMealToday = last.Format(dateLayout) == ref.Format(dateLayout)
	}

	return stats, nil
}

// ActiveSubscriptionCount counts subscription payments made within the
// trailing window.
func (s *Service) ActiveSubscriptionCount(ctx context.Context, userID int64, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	payments, err := s.store.Repos().Payments.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	window := time.Duration(windowDays) * 24 * time.Hour
	now := s.now()

	count := 0
	for _, p := range payments {
		if p.Type == models.PaymentSubscription && now.Sub(p.Date) < window {
			count++
		}
	}
	return count, nil
}

func orderTime(o models.Order, loc *time.Location) (time.Time, bool) {
	at, err := time.ParseInLocation(dateLayout+" "+clockLayout, o.Date+" "+o.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
