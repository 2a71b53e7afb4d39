package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleCook    Role = "cook"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCook, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Class          string    `json:"class,omitempty"`
	Allergies      []string  `json:"allergies"`
	Preferences    []string  `json:"preferences"`
	Balance        int64     `json:"balance"`
	MealsThisMonth int       `json:"meals_this_month"`
	CreatedAt      time.Time `json:"created_at"`
}
