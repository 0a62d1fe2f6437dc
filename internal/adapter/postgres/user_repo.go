package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mealmate/internal/domain"
)

// FindUsers returns users matching every non-empty field of q.
func (d *DB) FindUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, username, password FROM users WHERE ($1 = '' OR username = $1) AND ($2 = '' OR password = $2) ORDER BY id;",
		q.Username, q.Password,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.User{}
	for rows.Next() {
		var (
			u  domain.User
			id int64
		)
		if err := rows.Scan(&id, &u.Username, &u.Password); err != nil {
			return nil, err
		}
		u.ID = formatID(id)
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetUser retrieves a user by id.
func (d *DB) GetUser(ctx context.Context, id domain.ID) (domain.User, error) {
	n, ok := rowID(id)
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
	}
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"SELECT username, password FROM users WHERE id = $1", n,
	).Scan(&u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
	}
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

// CreateUser inserts a user. Username uniqueness is checked by the caller.
func (d *DB) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id",
		u.Username, u.Password,
	).Scan(&id)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = formatID(id)
	return u, nil
}
