package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"fmt"
	"strings"
)

type NewPurchaseRequest struct {
	Product  string
	Quantity float64
	Unit     string
	Reason   string
}

func (s *Service) CreatePurchaseRequest(ctx context.Context, actor Actor, in NewPurchaseRequest) (*models.PurchaseRequest, error) {
	if err := actor.require(models.RoleCook); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Product) == "" {
		return nil, fmt.Errorf("%w: product is required", ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidAmount)
	}

	req := &models.PurchaseRequest{
		Product:   strings.TrimSpace(in.Product),
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Reason:    in.Reason,
		Status:    models.RequestPending,
		CreatedBy: actor.ID,
		CreatedAt: s.now(),
	}
	if err := s.store.Repos().Requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "purchase request created", "request_id", req.ID, "product", req.Product, "cook_id", actor.ID)
	return req, nil
}

func (s *Service) ApproveRequest(ctx context.Context, actor Actor, id int64) (*models.PurchaseRequest, error) {
	return s.decideRequest(ctx, actor, id, models.RequestApproved)
}

func (s *Service) RejectRequest(ctx context.Context, actor Actor, id int64) (*models.PurchaseRequest, error) {
	return s.decideRequest(ctx, actor, id, models.RequestRejected)
}

// decideRequest moves a pending request to its final state. Decided requests
// cannot be decided again.
func (s *Service) decideRequest(ctx context.Context, actor Actor, id int64, status models.RequestStatus) (*models.PurchaseRequest, error) {
	if err := actor.require(models.RoleAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	var req *models.PurchaseRequest
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		if req, err = r.Requests.GetByIDForUpdate(ctx, id); err != nil {
			return translate(err, ErrRequestNotFound)
		}
		if req.Status != models.RequestPending {
			return ErrRequestClosed
		}

		admin := actor.ID
		req.Status = status
		if status == models.RequestApproved {
			req.ApprovedBy, req.ApprovedAt = &admin, &now
		} else {
			req.RejectedBy, req.RejectedAt = &admin, &now
		}
		return r.Requests.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "purchase request decided", "request_id", id, "status", status, "admin_id", actor.ID)
	return req, nil
}

func (s *Service) ListRequests(ctx context.Context, actor Actor) ([]models.PurchaseRequest, error) {
	if err := actor.require(models.RoleCook, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.Repos().Requests.GetAll(ctx)
}
