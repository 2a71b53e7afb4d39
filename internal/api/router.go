// Package api exposes the canteen service over HTTP.
package api

import (
	"canteen-service/internal/api/handlers"
	"canteen-service/internal/auth"
	"canteen-service/internal/canteen"
	"canteen-service/internal/models"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(svc *canteen.Service, tokens *auth.Tokens, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := handlers.New(svc, tokens, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.ListMenu)
		r.Get("/{id}", h.GetMenuItem)
		r.Get("/{id}/reviews", h.MenuItemReviews)
	})

	r.Group(func(r chi.Router) {
		r.Use(tokens.Authenticate)

		r.Get("/me", h.Profile)
		r.Get("/me/payments", h.Payments)

		r.Route("/student", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleStudent))

			r.Get("/orders", h.StudentOrders)
			r.Post("/orders", h.CreateOrder)
			r.Post("/orders/{id}/confirm", h.ConfirmReceived)
			r.Post("/recharge", h.Recharge)
			r.Post("/pay", h.Pay)
			r.Get("/payments", h.Payments)
			r.Get("/profile", h.Profile)
			r.Put("/profile", h.UpdateProfile)
			r.Get("/stats", h.StudentStats)
			r.Get("/reviews", h.ListReviews)
			r.Post("/reviews", h.AddReview)
		})

		r.Route("/cook", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleCook))

			r.Get("/orders", h.OrdersForDay)
			r.Post("/orders/issue", h.IssueMeal)
			r.Post("/orders/{id}/prepare", h.MarkPrepared)
			r.Post("/orders/{id}/serve", h.MarkServed)
			r.Post("/consume", h.Consume)
			r.Get("/inventory", h.ListInventory)
			r.Post("/inventory", h.AddInventoryItem)
			r.Put("/inventory/{id}", h.UpdateInventoryItem)
			r.Get("/requests", h.ListRequests)
			r.Post("/requests", h.CreatePurchaseRequest)
			r.Get("/statistics", h.CookStatistics)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))

			r.Get("/orders", h.OrdersForDay)
			r.Get("/inventory", h.ListInventory)
			r.Get("/requests", h.ListRequests)
			r.Post("/requests/{id}/approve", h.ApproveRequest)
			r.Post("/requests/{id}/reject", h.RejectRequest)
			r.Post("/menu", h.AddMenuItem)
			r.Post("/menu/{id}/toggle", h.ToggleMenuItem)
			r.Get("/reviews", h.ListReviews)
			r.Post("/reviews/{id}/approve", h.ApproveReview)
			r.Delete("/reviews/{id}", h.RejectReview)
			r.Get("/report", h.Report)
			r.Get("/summary", h.Summary)
		})
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.InfoContext(r.Context(), "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
