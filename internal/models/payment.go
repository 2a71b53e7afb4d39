package models

import "time"

type PaymentType string

const (
	PaymentRecharge     PaymentType = "recharge"
	PaymentSingle       PaymentType = "single"
	PaymentSubscription PaymentType = "subscription"
	PaymentMealPurchase PaymentType = "meal_purchase"
)

const PaymentCompleted = "completed"

type Payment struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Amount      int64       `json:"amount"`
	Type        PaymentType `json:"type"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Status      string      `json:"status"`
}
