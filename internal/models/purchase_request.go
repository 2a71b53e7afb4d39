package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type PurchaseRequest struct {
	ID         int64         `json:"id"`
	Product    string        `json:"product"`
	Quantity   float64       `json:"quantity"`
	Unit       string        `json:"unit,omitempty"`
	Reason     string        `json:"reason"`
	Status     RequestStatus `json:"status"`
	CreatedBy  int64         `json:"created_by"`
	CreatedAt  time.Time     `json:"created_at"`
	ApprovedBy *int64        `json:"approved_by,omitempty"`
	ApprovedAt *time.Time    `json:"approved_at,omitempty"`
	RejectedBy *int64        `json:"rejected_by,omitempty"`
	RejectedAt *time.Time    `json:"rejected_at,omitempty"`
}
