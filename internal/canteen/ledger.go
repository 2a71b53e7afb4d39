package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"fmt"
	"slices"
	"time"
)

// MaxRecharge is the largest single top-up accepted.
const MaxRecharge = 10000

func debit(ctx context.Context, r repository.Repositories, userID, amount int64) (int64, error) {
	balance, err := r.Users.AddBalance(ctx, userID, -amount)
	if err != nil {
		return 0, translate(err, ErrUserNotFound)
	}
	return balance, nil
}

func credit(ctx context.Context, r repository.Repositories, userID, amount int64) (int64, error) {
	balance, err := r.Users.AddBalance(ctx, userID, amount)
	if err != nil {
		return 0, translate(err, ErrUserNotFound)
	}
	return balance, nil
}

func recordPayment(ctx context.Context, r repository.Repositories, at time.Time, userID, amount int64, typ models.PaymentType, description string) (*models.Payment, error) {
	p := &models.Payment{
		UserID:      userID,
		Amount:      amount,
		Type:        typ,
		Description: description,
		Date:        at,
		Status:      models.PaymentCompleted,
	}
	if err := r.Payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("record %s payment: %w", typ, err)
	}
	return p, nil
}

// RechargeBalance tops up the acting student's balance and returns the new
// balance.
func (s *Service) RechargeBalance(ctx context.Context, actor Actor, amount int64) (int64, error) {
	if err := actor.require(models.RoleStudent); err != nil {
		return 0, err
	}
	if amount <= 0 || amount > MaxRecharge {
		return 0, fmt.Errorf("%w: recharge must be between 1 and %d", ErrInvalidAmount, MaxRecharge)
	}

	var balance int64
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Users.GetByIDForUpdate(ctx, actor.ID); err != nil {
			return translate(err, ErrUserNotFound)
		}

		var err error
		if balance, err = credit(ctx, r, actor.ID, amount); err != nil {
			return err
		}
		_, err = recordPayment(ctx, r, s.now(), actor.ID, amount, models.PaymentRecharge, "Пополнение баланса")
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "balance recharged", "user_id", actor.ID, "amount", amount, "balance", balance)
	return balance, nil
}

type PayRequest struct {
	Amount      int64
	Type        models.PaymentType
	Description string
}

// Pay debits a one-off or subscription payment from the acting student.
func (s *Service) Pay(ctx context.Context, actor Actor, req PayRequest) (*models.Payment, error) {
	if err := actor.require(models.RoleStudent); err != nil {
		return nil, err
	}
	if req.Type != models.PaymentSingle && req.Type != models.PaymentSubscription {
		return nil, fmt.Errorf("%w: payment type must be single or subscription", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if req.Description == "" {
		req.Description = "Оплата питания"
	}

	var payment *models.Payment
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		user, err := r.Users.GetByIDForUpdate(ctx, actor.ID)
		if err != nil {
			return translate(err, ErrUserNotFound)
		}
		if user.Balance < req.Amount {
			return ErrInsufficientFunds
		}

		if _, err := debit(ctx, r, actor.ID, req.Amount); err != nil {
			return err
		}
		payment, err = recordPayment(ctx, r, s.now(), actor.ID, req.Amount, req.Type, req.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment recorded", "user_id", actor.ID, "type", req.Type, "amount", req.Amount)
	return payment, nil
}

// Payments lists the acting user's payments, newest first.
func (s *Service) Payments(ctx context.Context, actor Actor) ([]models.Payment, error) {
	if err := actor.require(models.RoleStudent, models.RoleCook, models.RoleAdmin); err != nil {
		return nil, err
	}

	payments, err := s.store.Repos().Payments.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(payments)
	return payments, nil
}
