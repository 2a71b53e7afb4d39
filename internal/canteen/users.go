package canteen

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// StartingBalance is credited to every newly registered student.
const StartingBalance = 1500

type Registration struct {
	Username string
	Password string
	Role     models.Role
	FullName string
	Email    string
	Class    string
}

// Register creates a student or cook account. Admins are only created by the
// seed.
func (s *Service) Register(ctx context.Context, in Registration) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if in.Role != models.RoleStudent && in.Role != models.RoleCook {
		return nil, fmt.Errorf("%w: role must be student or cook", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		FullName:     in.FullName,
		Email:        in.Email,
		Class:        in.Class,
		Allergies:    []string{},
		Preferences:  []string{},
		CreatedAt:    s.now(),
	}
	if in.Role == models.RoleStudent {
		user.Balance = StartingBalance
	}

	if err := s.store.Repos().Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks a username and password pair.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Repos().Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Profile(ctx context.Context, actor Actor) (*models.User, error) {
	if err := actor.require(models.RoleStudent, models.RoleCook, models.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.store.Repos().Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return user, nil
}

// UserByID looks a user up without an acting caller, for operator tooling.
func (s *Service) UserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile replaces the acting student's allergies and preferences.
func (s *Service) UpdateProfile(ctx context.Context, actor Actor, allergies, preferences []string) (*models.User, error) {
	if err := actor.require(models.RoleStudent); err != nil {
		return nil, err
	}

	if err := s.store.Repos().Users.UpdateProfile(ctx, actor.ID, cleanSet(allergies), cleanSet(preferences)); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return s.Profile(ctx, actor)
}

// cleanSet trims entries and drops blanks and repeats, keeping first-seen
// order.
func cleanSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
