package canteen

import (
	"canteen-service/internal/models"
	"cmp"
	"context"
	"maps"
	"slices"
)

type AdminSummary struct {
	TotalStudents   int   `json:"total_students"`
	TotalBalance    int64 `json:"total_balance"`
	PendingRequests int   `json:"pending_requests"`
	TodayAttendance int   `json:"today_attendance"`
	PendingReviews  int   `json:"pending_reviews"`
}

func (s *Service) AdminSummary(ctx context.Context, actor Actor) (*AdminSummary, error) {
	if err := actor.require(models.RoleAdmin); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	users, err := repos.Users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := repos.Requests.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	today, err := repos.Orders.GetByDate(ctx, s.now().Format(dateLayout))
	if err != nil {
		return nil, err
	}
	reviews, err := repos.Reviews.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &AdminSummary{TodayAttendance: len(today)}
	for _, u := range users {
		if u.Role == models.RoleStudent {
			summary.TotalStudents++
			summary.TotalBalance += u.Balance
		}
	}
	for _, r := range requests {
		if r.Status == models.RequestPending {
			summary.PendingRequests++
		}
	}
	for _, r := range reviews {
		if !r.Approved {
			summary.PendingReviews++
		}
	}
	return summary, nil
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

type Report struct {
	AttendanceByDay []DateCount  `json:"attendance_by_day"`
	ClassAttendance []ClassCount `json:"class_attendance"`
	TotalOrders     int          `json:"total_orders"`
	// TodayRevenue sums today's payments other than recharges.
	TodayRevenue int64 `json:"today_revenue"`
}

func (s *Service) Report(ctx context.Context, actor Actor) (*Report, error) {
	if err := actor.require(models.RoleAdmin); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	orders, err := repos.Orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := repos.Users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := repos.Payments.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	classOf := make(map[int64]string, len(users))
	for _, u := range users {
		if u.Role == models.RoleStudent && u.Class != "" {
			classOf[u.ID] = u.Class
		}
	}

	byDay := map[string]int{}
	byClass := map[string]int{}
	for _, o := range orders {
		byDay[o.Date]++
		if class, ok := classOf[o.StudentID]; ok {
			byClass[class]++
		}
	}

	report := &Report{
		AttendanceByDay: []DateCount{},
		ClassAttendance: []ClassCount{},
		TotalOrders:     len(orders),
	}
	for _, date := range sortedKeys(byDay) {
		report.AttendanceByDay = append(report.AttendanceByDay, DateCount{Date: date, Count: byDay[date]})
	}
	for _, class := range sortedKeys(byClass) {
		report.ClassAttendance = append(report.ClassAttendance, ClassCount{Class: class, Count: byClass[class]})
	}

	now := s.now()
	today := now.Format(dateLayout)
	for _, p := range payments {
		if p.Type != models.PaymentRecharge && p.Date.In(now.Location()).Format(dateLayout) == today {
			report.TodayRevenue += p.Amount
		}
	}

	return report, nil
}

type DayMeals struct {
	Date      string `json:"date"`
	Breakfast int    `json:"breakfast"`
	Lunch     int    `json:"lunch"`
	Total     int    `json:"total"`
}

type DishCount struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

type CookStatistics struct {
	Days          []DayMeals             `json:"days"`
	PopularDishes []DishCount            `json:"popular_dishes"`
	LowStock      []models.InventoryItem `json:"low_stock"`
	TotalOrders   int                    `json:"total_orders"`
}

const (
	statisticsDays = 7
	popularDishes  = 5
)

// CookStatistics reports meal counts for the latest seven order dates, the
// five most ordered dishes and the items running low.
func (s *Service) CookStatistics(ctx context.Context, actor Actor) (*CookStatistics, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	orders, err := repos.Orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	inventory, err := repos.Inventory.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	days := map[string]*DayMeals{}
	dishes := map[int64]*DishCount{}
	var dishOrder []int64
	for _, o := range orders {
		if o.Date != "" {
			d, ok := days[o.Date]
			if !ok {
				d = &DayMeals{Date: o.Date}
				days[o.Date] = d
			}
			switch o.MealType {
			case models.Breakfast:
				d.Breakfast++
			case models.Lunch:
				d.Lunch++
			}
			d.Total++
		}

		if o.MenuItemID != nil {
			id := *o.MenuItemID
			if _, ok := dishes[id]; !ok {
				dishes[id] = &DishCount{MenuItemID: id}
				dishOrder = append(dishOrder, id)
			}
			dishes[id].Count++
		}
	}

	stats := &CookStatistics{
		Days:          []DayMeals{},
		PopularDishes: []DishCount{},
		LowStock:      lowStock(inventory),
		TotalOrders:   len(orders),
	}

	dates := sortedKeys(days)
	slices.Reverse(dates)
	for _, date := range dates[:min(len(dates), statisticsDays)] {
		stats.Days = append(stats.Days, *days[date])
	}

	slices.SortStableFunc(dishOrder, func(a, b int64) int {
		return cmp.Compare(dishes[b].Count, dishes[a].Count)
	})
	for _, id := range dishOrder[:min(len(dishOrder), popularDishes)] {
		item, err := s.menu.GetByID(ctx, id)
		if err != nil {
			continue
		}
		dish := *dishes[id]
		dish.Name = item.Name
		stats.PopularDishes = append(stats.PopularDishes, dish)
	}

	return stats, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
