package repository

import (
	"canteen-service/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type userRepo struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `
	id,
	username,
	password_hash,
	role,
	full_name,
	email,
	class_name,
	allergies,
	preferences,
	balance,
	meals_this_month,
	created_at`

func scanUser(row pgx.Row, u *models.User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&u.FullName,
		&u.Email,
		&u.Class,
		&u.Allergies,
		&u.Preferences,
		&u.Balance,
		&u.MealsThisMonth,
		&u.CreatedAt,
	)
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("%w: user cannot be nil", ErrInvalidInput)
	}
	if u.Username == "" {
		return fmt.Errorf("%w: username required", ErrInvalidInput)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: invalid role '%s'", ErrInvalidInput, u.Role)
	}

	sql := `
		INSERT INTO users (
			username,
			password_hash,
			role,
			full_name,
			email,
			class_name,
			allergies,
			preferences,
			balance,
			meals_this_month,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx, sql,
		u.Username,
		u.PasswordHash,
		u.Role,
		u.FullName,
		u.Email,
		u.Class,
		nonNil(u.Allergies),
		nonNil(u.Preferences),
		u.Balance,
		u.MealsThisMonth,
		u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username '%s' already exists", ErrDuplicate, u.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepo) get(ctx context.Context, sql string, args ...any) (*models.User, error) {
	var u models.User
	if err := scanUser(r.db.QueryRow(ctx, sql, args...), &u); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", ErrInvalidInput)
	}
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", ErrInvalidInput)
	}
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepo) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan users: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return users, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id int64, allergies, preferences []string) error {
	sql := `UPDATE users SET allergies = $1, preferences = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, sql, nonNil(allergies), nonNil(preferences), id)
	if err != nil {
		return fmt.Errorf("update profile of user %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) AddBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	sql := `UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`

	var balance int64
	err := r.db.QueryRow(ctx, sql, delta, id).Scan(&balance)
	if err != nil {
		if notFound(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to update balance of user %d: %w", id, err)
	}
	return balance, nil
}

func (r *userRepo) SetMealsThisMonth(ctx context.Context, id int64, meals int) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET meals_this_month = $1 WHERE id = $2`, meals, id)
	if err != nil {
		return fmt.Errorf("update meals of user %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// text[] columns are NOT NULL; a nil slice would be sent as NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
