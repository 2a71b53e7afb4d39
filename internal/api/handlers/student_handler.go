package handlers

import (
	"canteen-service/internal/canteen"
	"canteen-service/internal/models"
	"net/http"
	"time"
)

type OrderCreateRequest struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required,gt=0"`
}

type RechargeRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type PaymentRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required,oneof=single subscription"`
	Description string `json:"description" validate:"max=255"`
}

type ReviewCreateRequest struct {
	MenuItemID int64  `json:"menu_item_id" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required"`
}

type studentStats struct {
	*canteen.MonthlyStats
	ActiveSubscriptions int `json:"active_subscriptions"`
}

func (h *Handler) StudentOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.StudentOrders(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err, "failed to get orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req OrderCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), actor, req.MenuItemID)
	if err != nil {
		h.fail(w, r, err, "failed to create order")
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) ConfirmReceived(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.ConfirmReceived(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err, "failed to confirm order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) Recharge(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req RechargeRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	balance, err := h.svc.RechargeBalance(r.Context(), actor, req.Amount)
	if err != nil {
		h.fail(w, r, err, "failed to recharge balance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req PaymentRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	payment, err := h.svc.Pay(r.Context(), actor, canteen.PayRequest{
		Amount:      req.Amount,
		Type:        models.PaymentType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, err, "failed to record payment")
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *Handler) StudentStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.MonthlyStats(r.Context(), actor.ID, time.Time{})
	if err != nil {
		h.fail(w, r, err, "failed to get statistics")
		return
	}
	active, err := h.svc.ActiveSubscriptionCount(r.Context(), actor.ID, 30)
	if err != nil {
		h.fail(w, r, err, "failed to get statistics")
		return
	}
	writeJSON(w, http.StatusOK, studentStats{MonthlyStats: stats, ActiveSubscriptions: active})
}

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req ReviewCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	review, err := h.svc.AddReview(r.Context(), actor, req.MenuItemID, req.Rating, req.Comment)
	if err != nil {
		h.fail(w, r, err, "failed to add review")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	reviews, err := h.svc.ListReviews(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to get reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
