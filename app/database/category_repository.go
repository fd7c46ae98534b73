package database

import (
	"context"
	"database/sql"
	"fmt"
)

// CategoryRepo reads the fixed category set
type CategoryRepo struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

// GetCategoryByID returns nil, nil when the category does not exist
func (r *CategoryRepo) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).
		Scan(&category.ID, &category.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return &category, nil
}

// GetCategoryCounts returns every category with its number of objects,
// including empty categories.
func (r *CategoryRepo) GetCategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(o.id)
		FROM categories c
		LEFT JOIN celestial_objects o ON o.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category counts: %w", err)
	}
	defer rows.Close()

	counts := []CategoryCount{}
	for rows.Next() {
		var count CategoryCount
		if err := rows.Scan(&count.ID, &count.Name, &count.Objects); err != nil {
			return nil, fmt.Errorf("failed to scan category count row: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category count rows: %w", err)
	}

	return counts, nil
}
