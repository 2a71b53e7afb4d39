package repository

import (
	"canteen-service/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type orderRepo struct {
	db DBTX
}

func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `
	id,
	student_id,
	menu_item_id,
	menu_item_name,
	meal_type,
	to_char(date, 'YYYY-MM-DD'),
	order_time,
	price,
	status,
	issued_by,
	prepared_by,
	prepared_at,
	served_by,
	served_at,
	received_at,
	created_at`

func scanOrder(row pgx.Row, o *models.Order) error {
	return row.Scan(
		&o.ID,
		&o.StudentID,
		&o.MenuItemID,
		&o.MenuItemName,
		&o.MealType,
		&o.Date,
		&o.Time,
		&o.Price,
		&o.Status,
		&o.IssuedBy,
		&o.PreparedBy,
		&o.PreparedAt,
		&o.ServedBy,
		&o.ServedAt,
		&o.ReceivedAt,
		&o.CreatedAt,
	)
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	if o == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}
	if o.StudentID <= 0 {
		return fmt.Errorf("%w: student ID cannot be empty", ErrInvalidInput)
	}
	if o.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	sql := `
		INSERT INTO orders (
			student_id,
			menu_item_id,
			menu_item_name,
			meal_type,
			date,
			order_time,
			price,
			status,
			issued_by,
			created_at
		) VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, sql,
		o.StudentID,
		o.MenuItemID,
		o.MenuItemName,
		o.MealType,
		o.Date,
		o.Time,
		o.Price,
		o.Status,
		o.IssuedBy,
		o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: order for this item already exists today", ErrDuplicate)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepo) get(ctx context.Context, sql string, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	var o models.Order
	if err := scanOrder(r.db.QueryRow(ctx, sql, id), &o); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by id: %w", err)
	}
	return &o, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *orderRepo) list(ctx context.Context, sql string, args ...any) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan orders: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
}

func (r *orderRepo) GetByStudentID(ctx context.Context, studentID int64) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE student_id = $1 ORDER BY id`, studentID)
}

func (r *orderRepo) GetByDate(ctx context.Context, date string) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE date = $1::date ORDER BY id`, date)
}

func (r *orderRepo) Update(ctx context.Context, o *models.Order) error {
	if o == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}

	sql := `
		UPDATE orders SET
			status = $1,
			prepared_by = $2,
			prepared_at = $3,
			served_by = $4,
			served_at = $5,
			received_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, sql,
		o.Status,
		o.PreparedBy,
		o.PreparedAt,
		o.ServedBy,
		o.ServedAt,
		o.ReceivedAt,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepo) ExistsPurchase(ctx context.Context, studentID, menuItemID int64, date string) (bool, error) {
	sql := `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE student_id = $1
			  AND menu_item_id = $2
			  AND date = $3::date
			  AND issued_by IS NULL
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, sql, studentID, menuItemID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing order: %w", err)
	}
	return exists, nil
}

func (r *orderRepo) CountByStudentMonth(ctx context.Context, studentID int64, month string) (int, error) {
	sql := `
		SELECT COUNT(*) FROM orders
		WHERE student_id = $1 AND to_char(date, 'YYYY-MM') = $2
	`

	var count int
	if err := r.db.QueryRow(ctx, sql, studentID, month).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}
