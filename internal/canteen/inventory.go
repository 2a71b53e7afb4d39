package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMinimum is the low-stock threshold applied when none is given.
const DefaultMinimum = 10

// Consumption reports what one ingredient of a served dish did to stock.
type Consumption struct {
	Ingredient string  `json:"ingredient"`
	Found      bool    `json:"found"`
	ItemID     int64   `json:"item_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Before     float64 `json:"before"`
	After      float64 `json:"after"`
	Consumed   float64 `json:"consumed"`
	LowStock   bool    `json:"low_stock"`
}

// FindIngredient returns the index of the first item whose name contains the
// ingredient or is contained by it, ignoring case. Overlapping names such as
// "лук" and "зелёный лук" resolve to whichever comes first.
func FindIngredient(items []models.InventoryItem, name string) int {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return -1
	}
	for i, item := range items {
		hay := strings.ToLower(item.Name)
		if hay == "" {
			continue
		}
		if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
			return i
		}
	}
	return -1
}

// ConsumptionAmount is the stock taken per batch of servings for a unit:
// a tenth for anything measured in kilograms or litres (millilitres included),
// a hundred for grams and one for anything counted in pieces.
func ConsumptionAmount(unit string, servings int) decimal.Decimal {
	u := strings.ToLower(unit)
	n := decimal.NewFromInt(int64(servings))

	switch {
	case strings.Contains(u, "kg"), strings.Contains(u, "кг"),
		strings.Contains(u, "l"), strings.Contains(u, "л"):
		return n.Mul(decimal.New(1, -1))
	case strings.Contains(u, "g"), strings.Contains(u, "г"):
		return n.Mul(decimal.NewFromInt(100))
	default:
		return n
	}
}

// consume decrements stock for every ingredient of the menu item. Missing
// ingredients are reported and skipped.
func consume(ctx context.Context, r repository.Repositories, item *models.MenuItem, servings int) ([]Consumption, error) {
	if len(item.Contains) == 0 {
		return []Consumption{}, nil
	}

	stock, err := r.Inventory.GetAllForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]Consumption, 0, len(item.Contains))
	for _, ingredient := range item.Contains {
		idx := FindIngredient(stock, ingredient)
		if idx < 0 {
			report = append(report, Consumption{Ingredient: ingredient})
			continue
		}

		inv := &stock[idx]
		before := decimal.NewFromFloat(inv.Quantity)
		after := before.Sub(ConsumptionAmount(inv.Unit, servings)).Round(2)
		if after.IsNegative() {
			after = decimal.Zero
		}

		inv.Quantity = after.InexactFloat64()
		if err := r.Inventory.UpdateQuantity(ctx, inv.ID, inv.Quantity); err != nil {
			return nil, fmt.Errorf("consume %s: %w", inv.Name, err)
		}

		report = append(report, Consumption{
			Ingredient: ingredient,
			Found:      true,
			ItemID:     inv.ID,
			Name:       inv.Name,
			Unit:       inv.Unit,
			Before:     before.InexactFloat64(),
			After:      inv.Quantity,
			Consumed:   before.Sub(after).Round(2).InexactFloat64(),
			LowStock:   inv.LowStock(),
		})
	}

	return report, nil
}

// ConsumeForMenuItem writes off stock for servings of a dish outside the
// serving flow.
func (s *Service) ConsumeForMenuItem(ctx context.Context, actor Actor, menuItemID int64, servings int) ([]Consumption, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}
	if servings < 1 {
		return nil, fmt.Errorf("%w: servings must be at least 1", ErrInvalidInput)
	}

	var report []Consumption
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		item, err := r.Menu.GetByID(ctx, menuItemID)
		if err != nil {
			return translate(err, ErrItemNotFound)
		}
		report, err = consume(ctx, r, item, servings)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logConsumption(ctx, menuItemID, report)
	return report, nil
}

func (s *Service) logConsumption(ctx context.Context, menuItemID int64, report []Consumption) {
	for _, c := range report {
		switch {
		case !c.Found:
			s.logger.WarnContext(ctx, "ingredient not in inventory", "menu_item_id", menuItemID, "ingredient", c.Ingredient)
		case c.LowStock:
			s.logger.WarnContext(ctx, "low stock", "item_id", c.ItemID, "name", c.Name, "quantity", c.After, "unit", c.Unit)
		}
	}
}

type NewInventoryItem struct {
	Name        string
	Category    string
	Quantity    float64
	Unit        string
	Minimum     *float64
	Expires     string
	Description string
}

func (s *Service) AddInventoryItem(ctx context.Context, actor Actor, in NewInventoryItem) (*models.InventoryItem, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidAmount)
	}

	minimum := float64(DefaultMinimum)
	if in.Minimum != nil {
		minimum = *in.Minimum
	}

	item := &models.InventoryItem{
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Minimum:     minimum,
		Expires:     in.Expires,
		Description: in.Description,
	}
	if err := s.store.Repos().Inventory.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "inventory item added", "item_id", item.ID, "name", item.Name, "quantity", item.Quantity)
	return item, nil
}

type InventoryUpdate struct {
	Quantity float64
	Expires  string
	Comment  string
}

// UpdateInventoryItem sets the stock level. Expires and Comment are only
// changed when non-empty.
func (s *Service) UpdateInventoryItem(ctx context.Context, actor Actor, id int64, upd InventoryUpdate) (*models.InventoryItem, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}
	if upd.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidAmount)
	}

	var item *models.InventoryItem
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		if item, err = r.Inventory.GetByID(ctx, id); err != nil {
			return translate(err, ErrItemNotFound)
		}

		item.Quantity = upd.Quantity
		if upd.Expires != "" {
			item.Expires = upd.Expires
		}
		if upd.Comment != "" {
			item.Comment = upd.Comment
		}
		return r.Inventory.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) ListInventory(ctx context.Context, actor Actor) ([]models.InventoryItem, error) {
	if err := actor.require(models.RoleCook, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.Repos().Inventory.GetAll(ctx)
}

// LowStock lists items whose quantity is below their minimum.
func (s *Service) LowStock(ctx context.Context, actor Actor) ([]models.InventoryItem, error) {
	items, err := s.ListInventory(ctx, actor)
	if err != nil {
		return nil, err
	}
	return lowStock(items), nil
}

func lowStock(items []models.InventoryItem) []models.InventoryItem {
	low := []models.InventoryItem{}
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low
}
