package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mealmate/internal/domain"
)

const mealColumns = "id, name, category, date, favorite"

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(s scanner) (domain.Meal, error) {
	var (
		m  domain.Meal
		id int64
	)
	if err := s.Scan(&id, &m.Name, &m.Category, &m.Date, &m.Favorite); err != nil {
		return domain.Meal{}, err
	}
	m.ID = formatID(id)
	return m, nil
}

// ListMeals returns every meal ordered by id.
func (d *DB) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+mealColumns+" FROM meals ORDER BY id;")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMeal returns the meal with the given id.
func (d *DB) GetMeal(ctx context.Context, id domain.ID) (domain.Meal, error) {
	n, ok := rowID(id)
	if !ok {
		return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	m, err := scanMeal(d.sql.QueryRowContext(ctx, "SELECT "+mealColumns+" FROM meals WHERE id=$1;", n))
	return m, mealErr(id, err)
}

// CreateMeal inserts m and returns it with its assigned id.
func (d *DB) CreateMeal(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	return scanMeal(d.sql.QueryRowContext(ctx,
		"INSERT INTO meals(name, category, date, favorite) VALUES($1, $2, $3, $4) RETURNING "+mealColumns+";",
		m.Name, string(m.Category), m.Date, m.Favorite,
	))
}

// ReplaceMeal overwrites every field of the meal with the given id.
func (d *DB) ReplaceMeal(ctx context.Context, id domain.ID, m domain.Meal) (domain.Meal, error) {
	n, ok := rowID(id)
	if !ok {
		return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	out, err := scanMeal(d.sql.QueryRowContext(ctx,
		"UPDATE meals SET name=$2, category=$3, date=$4, favorite=$5 WHERE id=$1 RETURNING "+mealColumns+";",
		n, m.Name, string(m.Category), m.Date, m.Favorite,
	))
	return out, mealErr(id, err)
}

// PatchMeal updates only the fields present in p.
func (d *DB) PatchMeal(ctx context.Context, id domain.ID, p domain.MealPatch) (domain.Meal, error) {
	n, ok := rowID(id)
	if !ok {
		return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	var category *string
	if p.Category != nil {
		c := string(*p.Category)
		category = &c
	}
	out, err := scanMeal(d.sql.QueryRowContext(ctx,
		`UPDATE meals SET
			name = COALESCE($2, name),
			category = COALESCE($3, category),
			date = COALESCE($4, date),
			favorite = COALESCE($5, favorite)
		WHERE id=$1 RETURNING `+mealColumns+";",
		n, p.Name, category, p.Date, p.Favorite,
	))
	return out, mealErr(id, err)
}

// DeleteMeal removes the meal with the given id.
func (d *DB) DeleteMeal(ctx context.Context, id domain.ID) error {
	n, ok := rowID(id)
	if !ok {
		return fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	res, err := d.sql.ExecContext(ctx, "DELETE FROM meals WHERE id=$1;", n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	return nil
}

func mealErr(id domain.ID, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	return err
}
