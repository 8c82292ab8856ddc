package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/partsbridge/backend-go/internal/domain"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindByKey looks up a category by its exact triple. A null sub-category
// matches null, never the empty string. Returns nil when absent.
func (r *CategoryRepository) FindByKey(ctx context.Context, key domain.CategoryKey) (*domain.Category, error) {
	query := `
		SELECT id, main_category, category, sub_category, created_at, updated_at
		FROM categories
		WHERE main_category = $1
		  AND category = $2
		  AND sub_category IS NOT DISTINCT FROM $3
	`
	var cat domain.Category
	err := r.db.GetContext(ctx, &cat, query, key.MainCategory, key.Category, nullSub(key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, key domain.CategoryKey) (*domain.Category, error) {
	query := `
		INSERT INTO categories (main_category, category, sub_category, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, main_category, category, sub_category, created_at, updated_at
	`
	var cat domain.Category
	err := r.db.GetContext(ctx, &cat, query, key.MainCategory, key.Category, nullSub(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, main_category, category, sub_category, created_at, updated_at
		FROM categories
		ORDER BY main_category, category, sub_category NULLS FIRST
	`
	var categories []domain.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func nullSub(key domain.CategoryKey) sql.NullString {
	if key.SubCategory == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: key.SubCategory, Valid: true}
}
