// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
)

// ErrUserNotFound indicates that the user does not exist.
var ErrUserNotFound = errors.New("user not found")

// User is a planner account. Passwords are stored as given; the planner
// performs a lookup, not real authentication.
type User struct {
	ID       ID     `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserQuery filters users by exact field match. Empty fields match anything.
type UserQuery struct {
	Username string
	Password string
}

// Matches reports whether u satisfies q.
func (q UserQuery) Matches(u User) bool {
	if q.Username != "" && u.Username != q.Username {
		return false
	}
	if q.Password != "" && u.Password != q.Password {
		return false
	}
	return true
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	FindUsers(ctx context.Context, q UserQuery) ([]User, error)
	GetUser(ctx context.Context, id ID) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
}
