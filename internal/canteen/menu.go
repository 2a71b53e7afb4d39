package canteen

import (
	"canteen-service/internal/models"
	"context"
	"fmt"
	"strings"
	"time"
)

type NewMenuItem struct {
	Date        string
	Type        models.MealType
	Name        string
	Description string
	Price       int64
	Calories    int
	Allergens   []string
	Contains    []string
}

func (s *Service) AddMenuItem(ctx context.Context, actor Actor, in NewMenuItem) (*models.MenuItem, error) {
	if err := actor.require(models.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: meal type must be breakfast or lunch", ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidAmount)
	}

	item := &models.MenuItem{
		Date:        in.Date,
		Type:        in.Type,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Calories:    in.Calories,
		Allergens:   cleanSet(in.Allergens),
		Contains:    cleanSet(in.Contains),
		Available:   true,
	}
	if err := s.menu.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "menu item added", "menu_item_id", item.ID, "date", item.Date, "type", item.Type)
	return item, nil
}

// ToggleMenuItem flips availability and returns the updated item.
func (s *Service) ToggleMenuItem(ctx context.Context, actor Actor, id int64) (*models.MenuItem, error) {
	if err := actor.require(models.RoleAdmin); err != nil {
		return nil, err
	}

	item, err := s.menu.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrItemNotFound)
	}
	if err := s.menu.SetAvailable(ctx, id, !item.Available); err != nil {
		return nil, translate(err, ErrItemNotFound)
	}

	item.Available = !item.Available
	return item, nil
}

func (s *Service) ListMenu(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: meal type must be breakfast or lunch", ErrInvalidInput)
	}
	items, err := s.menu.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return items, nil
}

func (s *Service) MenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, err := s.menu.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrItemNotFound)
	}
	return item, nil
}
