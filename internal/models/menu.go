package models

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
)

func (t MealType) Valid() bool {
	return t == Breakfast || t == Lunch
}

type MenuItem struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	Type        MealType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Calories    int      `json:"calories"`
	Allergens   []string `json:"allergens"`
	Contains    []string `json:"contains"`
	Available   bool     `json:"available"`
}

// MenuFilter narrows a menu listing. Zero values match everything.
type MenuFilter struct {
	Date string
	Type MealType
}

func (f MenuFilter) Match(item MenuItem) bool {
	if f.Date != "" && item.Date != f.Date {
		return false
	}
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	return true
}
