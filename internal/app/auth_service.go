// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mealmate/internal/domain"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken indicates that registration found an existing user with the same name.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidInput indicates a blank username or password.
	ErrInvalidInput = errors.New("username and password are required")
)

// AuthService registers users and checks credentials against the user
// records. There is no hashing and no session token; callers remember the
// returned user.
type AuthService struct {
	users domain.UserRepository
	log   *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, log: log}
}

// Register creates a user after checking that the username is free. The
// check and the insert are separate calls, so two concurrent registrations
// of the same name can both succeed.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}

	existing, err := s.users.FindUsers(ctx, domain.UserQuery{Username: username})
	if err != nil {
		s.log.Error("registration lookup failed", zap.String("username", username), zap.Error(err))
		return domain.User{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	for _, u := range existing {
		if u.Username == username {
			return domain.User{}, ErrUsernameTaken
		}
	}

	u, err := s.users.CreateUser(ctx, domain.User{Username: username, Password: password})
	if err != nil {
		s.log.Error("registration failed", zap.String("username", username), zap.Error(err))
		return domain.User{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.log.Info("user registered", zap.String("username", u.Username))
	return u, nil
}

// Login returns the user matching username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	users, err := s.users.FindUsers(ctx, domain.UserQuery{Username: username, Password: password})
	if err != nil {
		s.log.Error("login lookup failed", zap.String("username", username), zap.Error(err))
		return domain.User{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	for _, u := range users {
		if u.Username == username && ConstantTimeCompare(u.Password, password) {
			return u, nil
		}
	}
	s.log.Warn("no user matched login credentials", zap.String("username", username))
	return domain.User{}, ErrInvalidCredentials
}

// User looks up a previously logged-in user by id.
func (s *AuthService) User(ctx context.Context, id domain.ID) (domain.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return u, nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
