package models

import "time"

type Review struct {
	ID         int64      `json:"id"`
	StudentID  int64      `json:"student_id"`
	MenuItemID int64      `json:"menu_item_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	Approved   bool       `json:"approved"`
	Date       time.Time  `json:"date"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}
