package handlers

import (
	"canteen-service/internal/canteen"
	"canteen-service/internal/models"
	"net/http"
)

type IssueMealRequest struct {
	StudentID  int64  `json:"student_id" validate:"required,gt=0"`
	MealType   string `json:"meal_type" validate:"required,oneof=breakfast lunch"`
	MenuItemID *int64 `json:"menu_item_id" validate:"omitempty,gt=0"`
}

type ConsumeRequest struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required,gt=0"`
	Servings   int   `json:"servings" validate:"required,gt=0"`
}

type InventoryCreateRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category"`
	Quantity    float64  `json:"quantity" validate:"gte=0"`
	Unit        string   `json:"unit" validate:"max=16"`
	Minimum     *float64 `json:"minimum" validate:"omitempty,gte=0"`
	Expires     string   `json:"expires" validate:"omitempty,datetime=2006-01-02"`
	Description string   `json:"description"`
}

type InventoryUpdateRequest struct {
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Expires  string  `json:"expires" validate:"omitempty,datetime=2006-01-02"`
	Comment  string  `json:"comment"`
}

type PurchaseRequestCreateRequest struct {
	Product  string  `json:"product" validate:"required,max=200"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit" validate:"max=16"`
	Reason   string  `json:"reason"`
}

func (h *Handler) IssueMeal(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req IssueMealRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	order, err := h.svc.IssueMeal(r.Context(), actor, canteen.IssueRequest{
		StudentID:  req.StudentID,
		MealType:   models.MealType(req.MealType),
		MenuItemID: req.MenuItemID,
	})
	if err != nil {
		h.fail(w, r, err, "failed to issue meal")
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) MarkPrepared(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.MarkPrepared(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err, "failed to mark order prepared")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) MarkServed(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.MarkServed(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err, "failed to mark order served")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// OrdersForDay lists every order of the given day, today when no date is
// passed.
func (h *Handler) OrdersForDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.OrdersForDay(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err, "failed to get orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) Consume(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req ConsumeRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	report, err := h.svc.ConsumeForMenuItem(r.Context(), actor, req.MenuItemID, req.Servings)
	if err != nil {
		h.fail(w, r, err, "failed to consume ingredients")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	list := h.svc.ListInventory
	if r.URL.Query().Get("low") == "true" {
		list = h.svc.LowStock
	}

	items, err := list(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to get inventory")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) AddInventoryItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req InventoryCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	item, err := h.svc.AddInventoryItem(r.Context(), actor, canteen.NewInventoryItem{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Minimum:     req.Minimum,
		Expires:     req.Expires,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, err, "failed to add inventory item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req InventoryUpdateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	item, err := h.svc.UpdateInventoryItem(r.Context(), actor, id, canteen.InventoryUpdate{
		Quantity: req.Quantity,
		Expires:  req.Expires,
		Comment:  req.Comment,
	})
	if err != nil {
		h.fail(w, r, err, "failed to update inventory item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) CreatePurchaseRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req PurchaseRequestCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	pr, err := h.svc.CreatePurchaseRequest(r.Context(), actor, canteen.NewPurchaseRequest{
		Product:  req.Product,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Reason:   req.Reason,
	})
	if err != nil {
		h.fail(w, r, err, "failed to create purchase request")
		return
	}
	writeJSON(w, http.StatusCreated, pr)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.svc.ListRequests(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to get purchase requests")
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) CookStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.CookStatistics(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to get statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
