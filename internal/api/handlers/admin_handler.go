package handlers

import (
	"canteen-service/internal/canteen"
	"canteen-service/internal/models"
	"context"
	"net/http"
)

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, h.svc.ApproveRequest)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, h.svc.RejectRequest)
}

func (h *Handler) decideRequest(w http.ResponseWriter, r *http.Request, decide func(context.Context, canteen.Actor, int64) (*models.PurchaseRequest, error)) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	pr, err := decide(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err, "failed to decide purchase request")
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (h *Handler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.ApproveReview(r.Context(), actor, id); err != nil {
		h.fail(w, r, err, "failed to approve review")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) RejectReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.RejectReview(r.Context(), actor, id); err != nil {
		h.fail(w, r, err, "failed to reject review")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Report(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.AdminSummary(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to build summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
