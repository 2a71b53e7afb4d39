package repository

import (
	"canteen-service/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type purchaseRequestRepo struct {
	db DBTX
}

func NewPurchaseRequestRepository(db DBTX) PurchaseRequestRepository {
	return &purchaseRequestRepo{db: db}
}

const requestColumns = `
	id,
	product,
	quantity,
	unit,
	reason,
	status,
	created_by,
	created_at,
	approved_by,
	approved_at,
	rejected_by,
	rejected_at`

func scanRequest(row pgx.Row, p *models.PurchaseRequest) error {
	return row.Scan(
		&p.ID,
		&p.Product,
		&p.Quantity,
		&p.Unit,
		&p.Reason,
		&p.Status,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.ApprovedBy,
		&p.ApprovedAt,
		&p.RejectedBy,
		&p.RejectedAt,
	)
}

func (r *purchaseRequestRepo) Create(ctx context.Context, p *models.PurchaseRequest) error {
	if p == nil {
		return fmt.Errorf("%w: purchase request cannot be nil", ErrInvalidInput)
	}
	if p.Product == "" {
		return fmt.Errorf("%w: product required", ErrInvalidInput)
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Status == "" {
		p.Status = models.RequestPending
	}

	sql := `
		INSERT INTO purchase_requests (
			product,
			quantity,
			unit,
			reason,
			status,
			created_by,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, sql,
		p.Product,
		p.Quantity,
		p.Unit,
		p.Reason,
		p.Status,
		p.CreatedBy,
		p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create purchase request: %w", err)
	}

	return nil
}

func (r *purchaseRequestRepo) get(ctx context.Context, sql string, id int64) (*models.PurchaseRequest, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: request ID must be positive", ErrInvalidInput)
	}

	var p models.PurchaseRequest
	if err := scanRequest(r.db.QueryRow(ctx, sql, id), &p); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get purchase request by id: %w", err)
	}
	return &p, nil
}

func (r *purchaseRequestRepo) GetByID(ctx context.Context, id int64) (*models.PurchaseRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM purchase_requests WHERE id = $1`, id)
}

func (r *purchaseRequestRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.PurchaseRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM purchase_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *purchaseRequestRepo) GetAll(ctx context.Context) ([]models.PurchaseRequest, error) {
	rows, err := r.db.Query(ctx, `SELECT `+requestColumns+` FROM purchase_requests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase requests: %w", err)
	}
	defer rows.Close()

	var requests []models.PurchaseRequest
	for rows.Next() {
		var p models.PurchaseRequest
		if err := scanRequest(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan purchase requests: %w", err)
		}
		requests = append(requests, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return requests, nil
}

func (r *purchaseRequestRepo) Update(ctx context.Context, p *models.PurchaseRequest) error {
	if p == nil {
		return fmt.Errorf("%w: purchase request cannot be nil", ErrInvalidInput)
	}

	sql := `
		UPDATE purchase_requests SET
			status = $1,
			approved_by = $2,
			approved_at = $3,
			rejected_by = $4,
			rejected_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, sql,
		p.Status,
		p.ApprovedBy,
		p.ApprovedAt,
		p.RejectedBy,
		p.RejectedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update purchase request %d: %w", p.ID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
