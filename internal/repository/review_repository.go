package repository

import (
	"canteen-service/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type reviewRepo struct {
	db DBTX
}

func NewReviewRepository(db DBTX) ReviewRepository {
	return &reviewRepo{db: db}
}

const reviewColumns = `id, student_id, menu_item_id, rating, comment, approved, date, approved_at`

func scanReview(row pgx.Row, v *models.Review) error {
	return row.Scan(
		&v.ID,
		&v.StudentID,
		&v.MenuItemID,
		&v.Rating,
		&v.Comment,
		&v.Approved,
		&v.Date,
		&v.ApprovedAt,
	)
}

func (r *reviewRepo) Create(ctx context.Context, v *models.Review) error {
	if v == nil {
		return fmt.Errorf("%w: review cannot be nil", ErrInvalidInput)
	}
	if v.Rating < 1 || v.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	if v.Date.IsZero() {
		v.Date = time.Now()
	}

	sql := `
		INSERT INTO reviews (student_id, menu_item_id, rating, comment, approved, date, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, sql,
		v.StudentID,
		v.MenuItemID,
		v.Rating,
		v.Comment,
		v.Approved,
		v.Date,
		v.ApprovedAt,
	).Scan(&v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: review already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepo) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: review ID must be positive", ErrInvalidInput)
	}

	var v models.Review
	if err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id), &v); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review by id: %w", err)
	}
	return &v, nil
}

func (r *reviewRepo) list(ctx context.Context, sql string, args ...any) ([]models.Review, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var v models.Review
		if err := scanReview(rows, &v); err != nil {
			return nil, fmt.Errorf("failed to scan reviews: %w", err)
		}
		reviews = append(reviews, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepo) GetAll(ctx context.Context) ([]models.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY id`)
}

func (r *reviewRepo) GetByStudentID(ctx context.Context, studentID int64) ([]models.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE student_id = $1 ORDER BY id`, studentID)
}

func (r *reviewRepo) GetByMenuItemID(ctx context.Context, menuItemID int64, approvedOnly bool) ([]models.Review, error) {
	sql := `SELECT ` + reviewColumns + ` FROM reviews WHERE menu_item_id = $1`
	if approvedOnly {
		sql += ` AND approved`
	}
	return r.list(ctx, sql+` ORDER BY id`, menuItemID)
}

func (r *reviewRepo) Approve(ctx context.Context, id int64, at time.Time) error {
	result, err := r.db.Exec(ctx, `UPDATE reviews SET approved = TRUE, approved_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("approve review %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
