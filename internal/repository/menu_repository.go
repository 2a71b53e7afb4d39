package repository

import (
	"canteen-service/internal/models"
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

type menuRepo struct {
	db DBTX
}

func NewMenuRepository(db DBTX) MenuRepository {
	return &menuRepo{db: db}
}

const menuColumns = `
	id,
	to_char(date, 'YYYY-MM-DD'),
	meal_type,
	name,
	description,
	price,
	calories,
	allergens,
	contains,
	available`

func scanMenuItem(row pgx.Row, m *models.MenuItem) error {
	return row.Scan(
		&m.ID,
		&m.Date,
		&m.Type,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.Calories,
		&m.Allergens,
		&m.Contains,
		&m.Available,
	)
}

func (r *menuRepo) Create(ctx context.Context, m *models.MenuItem) error {
	if m == nil {
		return fmt.Errorf("%w: menu item cannot be nil", ErrInvalidInput)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: invalid meal type '%s'", ErrInvalidInput, m.Type)
	}
	if m.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}

	sql := `
		INSERT INTO menu_items (
			date,
			meal_type,
			name,
			description,
			price,
			calories,
			allergens,
			contains,
			available
		) VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, sql,
		m.Date,
		m.Type,
		m.Name,
		m.Description,
		m.Price,
		m.Calories,
		nonNil(m.Allergens),
		nonNil(m.Contains),
		m.Available,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	return nil
}

func (r *menuRepo) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: menu item ID must be positive", ErrInvalidInput)
	}

	var m models.MenuItem
	err := scanMenuItem(r.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id), &m)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu item by id: %w", err)
	}

	return &m, nil
}

func (r *menuRepo) GetAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	var (
		where []string
		args  []any
	)
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, fmt.Sprintf("date = $%d::date", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("meal_type = $%d", len(args)))
	}

	sql := `SELECT ` + menuColumns + ` FROM menu_items`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY id`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var m models.MenuItem
		if err := scanMenuItem(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan menu items: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return items, nil
}

func (r *menuRepo) SetAvailable(ctx context.Context, id int64, available bool) error {
	result, err := r.db.Exec(ctx, `UPDATE menu_items SET available = $1 WHERE id = $2`, available, id)
	if err != nil {
		return fmt.Errorf("update menu item %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
