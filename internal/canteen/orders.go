package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"
)

// refreshMealCount recomputes the student's cached monthly meal count from
// the orders table.
func refreshMealCount(ctx context.Context, r repository.Repositories, studentID int64, now time.Time) error {
	count, err := r.Orders.CountByStudentMonth(ctx, studentID, now.Format(monthLayout))
	if err != nil {
		return err
	}
	if err := r.Users.SetMealsThisMonth(ctx, studentID, count); err != nil {
		return translate(err, ErrUserNotFound)
	}
	return nil
}

// CreateOrder buys a menu item for today on behalf of the acting student.
// The order, the debit, the meal_purchase payment and the refreshed meal
// count are written together or not at all.
func (s *Service) CreateOrder(ctx context.Context, actor Actor, menuItemID int64) (*models.Order, error) {
	if err := actor.require(models.RoleStudent); err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format(dateLayout)

	var order *models.Order
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		item, err := r.Menu.GetByID(ctx, menuItemID)
		if err != nil {
			return translate(err, ErrItemNotFound)
		}

		student, err := r.Users.GetByIDForUpdate(ctx, actor.ID)
		if err != nil {
			return translate(err, ErrUserNotFound)
		}
		if student.Balance < item.Price {
			return ErrInsufficientFunds
		}

		exists, err := r.Orders.ExistsPurchase(ctx, actor.ID, item.ID, today)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateOrder
		}

		itemID := item.ID
		o := &models.Order{
			StudentID:    actor.ID,
			MenuItemID:   &itemID,
			MenuItemName: item.Name,
			MealType:     item.Type,
			Date:         today,
			Time:         now.Format(clockLayout),
			Price:        item.Price,
			Status:       models.StatusOrdered,
			CreatedAt:    now,
		}
		if err := r.Orders.Create(ctx, o); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateOrder
			}
			return err
		}

		if _, err := debit(ctx, r, actor.ID, item.Price); err != nil {
			return err
		}
		if _, err := recordPayment(ctx, r, now, actor.ID, item.Price, models.PaymentMealPurchase, "Покупка: "+item.Name); err != nil {
			return err
		}
		if err := refreshMealCount(ctx, r, actor.ID, now); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"student_id", order.StudentID,
		"menu_item_id", menuItemID,
		"price", order.Price,
	)
	return order, nil
}

type IssueRequest struct {
	StudentID  int64
	MealType   models.MealType
	MenuItemID *int64
}

// IssueMeal records a meal handed out by a cook. No payment is taken.
func (s *Service) IssueMeal(ctx context.Context, actor Actor, req IssueRequest) (*models.Order, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}

	now := s.now()
	var order *models.Order
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		student, err := r.Users.GetByIDForUpdate(ctx, req.StudentID)
		if err != nil {
			return translate(err, ErrUserNotFound)
		}
		if student.Role != models.RoleStudent {
			return fmt.Errorf("%w: meals are issued to students only", ErrInvalidInput)
		}

		cook := actor.ID
		o := &models.Order{
			StudentID: req.StudentID,
			MealType:  req.MealType,
			Date:      now.Format(dateLayout),
			Time:      now.Format(clockLayout),
			Status:    models.StatusIssued,
			IssuedBy:  &cook,
			CreatedAt: now,
		}

		if req.MenuItemID != nil {
			item, err := r.Menu.GetByID(ctx, *req.MenuItemID)
			if err != nil {
				return translate(err, ErrItemNotFound)
			}
			itemID := item.ID
			o.MenuItemID = &itemID
			o.MenuItemName = item.Name
			o.MealType = item.Type
			o.Price = item.Price
		}
		if !o.MealType.Valid() {
			return fmt.Errorf("%w: meal type must be breakfast or lunch", ErrInvalidInput)
		}

		if err := r.Orders.Create(ctx, o); err != nil {
			return err
		}
		if err := refreshMealCount(ctx, r, req.StudentID, now); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "meal issued", "order_id", order.ID, "student_id", order.StudentID, "cook_id", actor.ID)
	return order, nil
}

// MarkPrepared moves any open order to prepared.
func (s *Service) MarkPrepared(ctx context.Context, actor Actor, orderID int64) (*models.Order, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}

	now := s.now()
	var order *models.Order
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		o, err := r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return translate(err, ErrOrderNotFound)
		}
		if o.Status == models.StatusReceived {
			return ErrOrderClosed
		}

		cook := actor.ID
		o.Status = models.StatusPrepared
		o.PreparedBy = &cook
		o.PreparedAt = &now
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		if err := refreshMealCount(ctx, r, o.StudentID, now); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

type ServeResult struct {
	Order       *models.Order `json:"order"`
	Consumption []Consumption `json:"consumption"`
}

// MarkServed moves any open order to served. The first time an order linked
// to a menu item is served one serving of its ingredients is written off and
// the per-ingredient report is returned.
func (s *Service) MarkServed(ctx context.Context, actor Actor, orderID int64) (*ServeResult, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}

	now := s.now()
	result := &ServeResult{Consumption: []Consumption{}}
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		o, err := r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return translate(err, ErrOrderNotFound)
		}
		if o.Status == models.StatusReceived {
			return ErrOrderClosed
		}
		alreadyServed := o.Status == models.StatusServed

		cook := actor.ID
		o.Status = models.StatusServed
		o.ServedBy = &cook
		o.ServedAt = &now
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}

		if o.MenuItemID != nil && !alreadyServed {
			item, err := r.Menu.GetByID(ctx, *o.MenuItemID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				s.logger.WarnContext(ctx, "served order references missing menu item", "order_id", o.ID, "menu_item_id", *o.MenuItemID)
			case err != nil:
				return err
			default:
				if result.Consumption, err = consume(ctx, r, item, 1); err != nil {
					return err
				}
			}
		}

		if err := refreshMealCount(ctx, r, o.StudentID, now); err != nil {
			return err
		}

		result.Order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order served", "order_id", orderID, "cook_id", actor.ID, "ingredients", len(result.Consumption))
	if result.Order.MenuItemID != nil {
		s.logConsumption(ctx, *result.Order.MenuItemID, result.Consumption)
	}
	return result, nil
}

// ConfirmReceived lets the owning student close an order once something has
// been handed over.
func (s *Service) ConfirmReceived(ctx context.Context, actor Actor, orderID int64) (*models.Order, error) {
	if err := actor.require(models.RoleStudent); err != nil {
		return nil, err
	}

	now := s.now()
	var order *models.Order
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		o, err := r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return translate(err, ErrOrderNotFound)
		}
		if o.StudentID != actor.ID {
			return ErrForbidden
		}

		switch o.Status {
		case models.StatusServed, models.StatusPrepared, models.StatusIssued:
		case models.StatusReceived:
			return ErrAlreadyReceived
		default:
			return ErrNotYetServed
		}

		o.Status = models.StatusReceived
		o.ReceivedAt = &now
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		if err := refreshMealCount(ctx, r, o.StudentID, now); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order received", "order_id", orderID, "student_id", actor.ID)
	return order, nil
}

// StudentOrders lists the acting student's orders, optionally for one day.
func (s *Service) StudentOrders(ctx context.Context, actor Actor, date string) ([]models.Order, error) {
	if err := actor.require(models.RoleStudent); err != nil {
		return nil, err
	}

	orders, err := s.store.Repos().Orders.GetByStudentID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if date == "" {
		return orders, nil
	}

	filtered := []models.Order{}
	for _, o := range orders {
		if o.Date == date {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// OrdersForDay lists every order dated date, today when empty.
func (s *Service) OrdersForDay(ctx context.Context, actor Actor, date string) ([]models.Order, error) {
	if err := actor.require(models.RoleCook, models.RoleAdmin); err != nil {
		return nil, err
	}
	if date == "" {
		date = s.now().Format(dateLayout)
	}
	return s.store.Repos().Orders.GetByDate(ctx, date)
}
