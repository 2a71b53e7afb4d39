package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	username, password string
	user               models.User
}

var demoUsers = []demoUser{
	{"admin", "admin123", models.User{
		Role:     models.RoleAdmin,
		FullName: "Администратор Системы",
		Email:    "admin@school.ru",
	}},
	{"ivanov", "ivanov123", models.User{
		Role:      models.RoleStudent,
		FullName:  "Иванов Иван Иванович",
		Email:     "ivanov@school.ru",
		Class:     "10А",
		Allergies: []string{"орехи", "молоко"},
		Balance:   StartingBalance,
	}},
	{"petrov", "petrov123", models.User{
		Role:     models.RoleCook,
		FullName: "Петров Петр Петрович",
		Email:    "petrov@school.ru",
	}},
}

var demoDishes = []models.MenuItem{
	{Type: models.Breakfast, Name: "Каша манная с маслом", Description: "Полезная молочная каша", Price: 70, Calories: 250,
		Allergens: []string{"молоко", "глютен"}, Contains: []string{"манка", "молоко", "сахар", "масло"}},
	{Type: models.Breakfast, Name: "Омлет с сыром", Description: "Воздушный омлет с сыром", Price: 85, Calories: 220,
		Allergens: []string{"яйца", "молоко"}, Contains: []string{"яйца", "молоко", "сыр"}},
	{Type: models.Breakfast, Name: "Бутерброд с сыром", Description: "Свежий бутерброд", Price: 60, Calories: 180,
		Allergens: []string{"глютен"}, Contains: []string{"хлеб", "сыр"}},
	{Type: models.Lunch, Name: "Суп куриный с лапшой", Description: "Наваристый куриный суп", Price: 120, Calories: 300,
		Allergens: []string{"глютен"}, Contains: []string{"курица", "лапша", "овощи"}},
	{Type: models.Lunch, Name: "Котлета с картофельным пюре", Description: "Домашняя котлета с пюре", Price: 130, Calories: 350,
		Allergens: []string{"глютен"}, Contains: []string{"мясо", "картофель", "лук"}},
	{Type: models.Lunch, Name: "Салат овощной", Description: "Свежий овощной салат", Price: 80, Calories: 150,
		Allergens: []string{}, Contains: []string{"помидоры", "огурцы", "лук"}},
}

type demoStock struct {
	item      models.InventoryItem
	shelfDays int
}

var demoInventory = []demoStock{
	{models.InventoryItem{Name: "Картофель", Category: "vegetables", Quantity: 50, Unit: "кг", Minimum: 10, Description: "Свежий картофель"}, 60},
	{models.InventoryItem{Name: "Курица", Category: "meat", Quantity: 25, Unit: "кг", Minimum: 5, Description: "Куриное филе"}, 10},
	{models.InventoryItem{Name: "Молоко", Category: "dairy", Quantity: 30, Unit: "л", Minimum: 10, Description: "Пастеризованное молоко"}, 7},
	{models.InventoryItem{Name: "Морковь", Category: "vegetables", Quantity: 15, Unit: "кг", Minimum: 5, Description: "Свежая морковь"}, 30},
	{models.InventoryItem{Name: "Лук", Category: "vegetables", Quantity: 8, Unit: "кг", Minimum: 3, Description: "Репчатый лук"}, 45},
}

const seedMenuDays = 7

type SeedResult struct {
	Users     int `json:"users"`
	MenuItems int `json:"menu_items"`
	Inventory int `json:"inventory"`
}

// Seed loads demo accounts, a week of menu starting today and starter stock.
// Accounts are matched by username; menu and stock are only written into
// empty collections, so running it twice changes nothing.
func (s *Service) Seed(ctx context.Context) (*SeedResult, error) {
	now := s.now()
	result := &SeedResult{}

	hashes := make(map[string]string, len(demoUsers))
	for _, d := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashes[d.username] = string(hash)
	}

	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		for _, d := range demoUsers {
			_, err := r.Users.GetByUsername(ctx, d.username)
			if err == nil {
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			u := d.user
			u.Username = d.username
			u.PasswordHash = hashes[d.username]
			u.Preferences = []string{}
			u.CreatedAt = now
			if err := r.Users.Create(ctx, &u); err != nil {
				return fmt.Errorf("seed user %s: %w", d.username, err)
			}
			result.Users++
		}

		menu, err := r.Menu.GetAll(ctx, models.MenuFilter{})
		if err != nil {
			return err
		}
		if len(menu) == 0 {
			for day := range seedMenuDays {
				date := now.AddDate(0, 0, day).Format(dateLayout)
				for _, dish := range demoDishes {
					item := dish
					item.Date = date
					item.Available = true
					if err := r.Menu.Create(ctx, &item); err != nil {
						return fmt.Errorf("seed menu: %w", err)
					}
					result.MenuItems++
				}
			}
		}

		stock, err := r.Inventory.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(stock) == 0 {
			for _, d := range demoInventory {
				item := d.item
				item.Expires = now.AddDate(0, 0, d.shelfDays).Format(dateLayout)
				if err := r.Inventory.Create(ctx, &item); err != nil {
					return fmt.Errorf("seed inventory: %w", err)
				}
				result.Inventory++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "seed complete", "users", result.Users, "menu_items", result.MenuItems, "inventory", result.Inventory)
	return result, nil
}
