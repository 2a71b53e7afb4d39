package handlers

import (
	"canteen-service/internal/canteen"
	"canteen-service/internal/models"
	"net/http"
	"strconv"
	"time"
)

type MenuItemCreateRequest struct {
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Type        string   `json:"type" validate:"required,oneof=breakfast lunch"`
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"gte=0"`
	Calories    int      `json:"calories" validate:"gte=0"`
	Allergens   []string `json:"allergens"`
	Contains    []string `json:"contains"`
}

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.MenuFilter{
		Date: query.Get("date"),
		Type: models.MealType(query.Get("type")),
	}
	if filter.Type == "all" {
		filter.Type = ""
	}
	if filter.Type != "" && !filter.Type.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_input", "type must be breakfast or lunch", nil)
		return
	}
	if filter.Date != "" {
		if _, err := time.Parse(time.DateOnly, filter.Date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "date must be YYYY-MM-DD", nil)
			return
		}
	}

	items, err := h.svc.ListMenu(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, "failed to get menu")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.MenuItem(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "failed to get menu item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) MenuItemReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	reviews, err := h.svc.ReviewsForItem(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "failed to get reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req MenuItemCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	item, err := h.svc.AddMenuItem(r.Context(), actor, canteen.NewMenuItem{
		Date:        req.Date,
		Type:        models.MealType(req.Type),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Calories:    req.Calories,
		Allergens:   req.Allergens,
		Contains:    req.Contains,
	})
	if err != nil {
		h.fail(w, r, err, "failed to create menu item")
		return
	}

	w.Header().Set("Location", "/menu/"+strconv.FormatInt(item.ID, 10))
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) ToggleMenuItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.ToggleMenuItem(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err, "failed to toggle menu item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}
