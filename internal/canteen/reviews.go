package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
)

// AddReview records a rating for a dish the acting student has ordered.
// Reviews are published immediately; admins may retract them.
func (s *Service) AddReview(ctx context.Context, actor Actor, menuItemID int64, rating int, comment string) (*models.Review, error) {
	if err := actor.require(models.RoleStudent); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	now := s.now()
	var review *models.Review
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Menu.GetByID(ctx, menuItemID); err != nil {
			return translate(err, ErrItemNotFound)
		}

		orders, err := r.Orders.GetByStudentID(ctx, actor.ID)
		if err != nil {
			return err
		}
		ordered := false
		for _, o := range orders {
			if o.MenuItemID != nil && *o.MenuItemID == menuItemID {
				ordered = true
				break
			}
		}
		if !ordered {
			return ErrNotOrdered
		}

		review = &models.Review{
			StudentID:  actor.ID,
			MenuItemID: menuItemID,
			Rating:     rating,
			Comment:    comment,
			Approved:   true,
			Date:       now,
			ApprovedAt: &now,
		}
		if err := r.Reviews.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyReviewed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) ApproveReview(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(models.RoleAdmin); err != nil {
		return err
	}
	return translate(s.store.Repos().Reviews.Approve(ctx, id, s.now()), ErrReviewNotFound)
}

// RejectReview deletes the review.
func (s *Service) RejectReview(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(models.RoleAdmin); err != nil {
		return err
	}
	if err := s.store.Repos().Reviews.Delete(ctx, id); err != nil {
		return translate(err, ErrReviewNotFound)
	}
	s.logger.InfoContext(ctx, "review rejected", "review_id", id, "admin_id", actor.ID)
	return nil
}

// ReviewsForItem lists the approved reviews of a dish.
func (s *Service) ReviewsForItem(ctx context.Context, menuItemID int64) ([]models.Review, error) {
	reviews, err := s.store.Repos().Reviews.GetByMenuItemID(ctx, menuItemID, true)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// ListReviews shows admins every review and students their own.
func (s *Service) ListReviews(ctx context.Context, actor Actor) ([]models.Review, error) {
	if err := actor.require(models.RoleStudent, models.RoleAdmin); err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAdmin {
		return s.store.Repos().Reviews.GetAll(ctx)
	}
	return s.store.Repos().Reviews.GetByStudentID(ctx, actor.ID)
}
