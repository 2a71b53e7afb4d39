package handlers

import (
	"canteen-service/internal/auth"
	"canteen-service/internal/canteen"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	svc    *canteen.Service
	tokens *auth.Tokens
	logger *slog.Logger
}

func New(svc *canteen.Service, tokens *auth.Tokens, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	if !writeServiceError(w, err, message) {
		h.logger.ErrorContext(r.Context(), message,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "unavailable", "store unreachable", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
