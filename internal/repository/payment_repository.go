package repository

import (
	"canteen-service/internal/models"
	"context"
	"fmt"
	"time"
)

type paymentRepo struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	if p == nil {
		return fmt.Errorf("%w: payment cannot be nil", ErrInvalidInput)
	}
	if p.UserID <= 0 {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}

	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	if p.Status == "" {
		p.Status = models.PaymentCompleted
	}

	sql := `
		INSERT INTO payments (user_id, amount, type, description, date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, sql,
		p.UserID,
		p.Amount,
		p.Type,
		p.Description,
		p.Date,
		p.Status,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *paymentRepo) list(ctx context.Context, sql string, args ...any) ([]models.Payment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Amount,
			&p.Type,
			&p.Description,
			&p.Date,
			&p.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payments: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return payments, nil
}

func (r *paymentRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Payment, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, type, description, date, status
		FROM payments WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *paymentRepo) GetAll(ctx context.Context) ([]models.Payment, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, type, description, date, status
		FROM payments ORDER BY id`)
}
