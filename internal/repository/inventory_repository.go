package repository

import (
	"canteen-service/internal/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type inventoryRepo struct {
	db DBTX
}

func NewInventoryRepository(db DBTX) InventoryRepository {
	return &inventoryRepo{db: db}
}

const inventoryColumns = `
	id,
	name,
	category,
	quantity,
	unit,
	minimum,
	expires,
	description,
	comment`

func scanInventoryItem(row pgx.Row, i *models.InventoryItem) error {
	return row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.Quantity,
		&i.Unit,
		&i.Minimum,
		&i.Expires,
		&i.Description,
		&i.Comment,
	)
}

func (r *inventoryRepo) Create(ctx context.Context, i *models.InventoryItem) error {
	if i == nil {
		return fmt.Errorf("%w: inventory item cannot be nil", ErrInvalidInput)
	}
	if i.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}

	sql := `
		INSERT INTO inventory (
			name,
			category,
			quantity,
			unit,
			minimum,
			expires,
			description,
			comment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, sql,
		i.Name,
		i.Category,
		i.Quantity,
		i.Unit,
		i.Minimum,
		i.Expires,
		i.Description,
		i.Comment,
	).Scan(&i.ID)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: inventory ID must be positive", ErrInvalidInput)
	}

	var i models.InventoryItem
	err := scanInventoryItem(r.db.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id), &i)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item by id: %w", err)
	}

	return &i, nil
}

func (r *inventoryRepo) list(ctx context.Context, sql string) ([]models.InventoryItem, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		var i models.InventoryItem
		if err := scanInventoryItem(rows, &i); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		items = append(items, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return items, nil
}

func (r *inventoryRepo) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY id`)
}

func (r *inventoryRepo) GetAllForUpdate(ctx context.Context) ([]models.InventoryItem, error) {
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY id FOR UPDATE`)
}

func (r *inventoryRepo) Update(ctx context.Context, i *models.InventoryItem) error {
	if i == nil {
		return fmt.Errorf("%w: inventory item cannot be nil", ErrInvalidInput)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}

	sql := `
		UPDATE inventory SET
			name = $1,
			category = $2,
			quantity = $3,
			unit = $4,
			minimum = $5,
			expires = $6,
			description = $7,
			comment = $8
		WHERE id = $9
	`

	result, err := r.db.Exec(ctx, sql,
		i.Name,
		i.Category,
		i.Quantity,
		i.Unit,
		i.Minimum,
		i.Expires,
		i.Description,
		i.Comment,
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("update inventory item %d: %w", i.ID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepo) UpdateQuantity(ctx context.Context, id int64, quantity float64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}

	result, err := r.db.Exec(ctx, `UPDATE inventory SET quantity = $1 WHERE id = $2`, quantity, id)
	if err != nil {
		return fmt.Errorf("update quantity of item %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
