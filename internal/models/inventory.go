package models

type InventoryItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Minimum     float64 `json:"minimum"`
	Expires     string  `json:"expires,omitempty"`
	Description string  `json:"description,omitempty"`
	Comment     string  `json:"comment,omitempty"`
}

func (i InventoryItem) LowStock() bool {
	return i.Quantity < i.Minimum
}
