package models

import "time"

type OrderStatus string

const (
	StatusOrdered  OrderStatus = "ordered"
	StatusIssued   OrderStatus = "issued"
	StatusPrepared OrderStatus = "prepared"
	StatusServed   OrderStatus = "served"
	StatusReceived OrderStatus = "received"
)

type Order struct {
	ID           int64       `json:"id"`
	StudentID    int64       `json:"student_id"`
	MenuItemID   *int64      `json:"menu_item_id,omitempty"`
	MenuItemName string      `json:"menu_item_name,omitempty"`
	MealType     MealType    `json:"meal_type"`
	Date         string      `json:"date"`
	Time         string      `json:"time"`
	Price        int64       `json:"price"`
	Status       OrderStatus `json:"status"`
	IssuedBy     *int64      `json:"issued_by,omitempty"`
	PreparedBy   *int64      `json:"prepared_by,omitempty"`
	PreparedAt   *time.Time  `json:"prepared_at,omitempty"`
	ServedBy     *int64      `json:"served_by,omitempty"`
	ServedAt     *time.Time  `json:"served_at,omitempty"`
	ReceivedAt   *time.Time  `json:"received_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Purchased reports whether the order came through the student purchase path
// rather than being issued by a cook.
func (o Order) Purchased() bool {
	return o.IssuedBy == nil
}
