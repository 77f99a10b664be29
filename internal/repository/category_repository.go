package repository

import (
	"context"
	"database/sql"

	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
)

// CategoryRepo persists categories.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// CreateCategory inserts the category and reads back the stored row so
// the timestamps are populated.
func (r *CategoryRepo) CreateCategory(ctx context.Context, cat *model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?,?)",
		cat.Name, cat.Slug)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetCategory(ctx, uint64(id))
	if err != nil {
		return err
	}
	*cat = fresh
	return nil
}

// ListCategories returns every category, oldest first. No pagination:
// the category set is expected to stay small.
func (r *CategoryRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,slug,created_at,updated_at FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// GetCategory fetches a category by id.
func (r *CategoryRepo) GetCategory(ctx context.Context, id uint64) (model.Category, error) {
	var cat model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,slug,created_at,updated_at FROM categories WHERE id=? LIMIT 1",
		id).Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.UpdatedAt)
	if err == sql.ErrNoRows {
		return cat, store.ErrNotFound
	}
	return cat, err
}

// UpdateCategory rewrites name and slug for the given category id.
func (r *CategoryRepo) UpdateCategory(ctx context.Context, cat *model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET name=?, slug=? WHERE id=?",
		cat.Name, cat.Slug, cat.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "missing" from "same values": re-check existence.
		if _, err := r.GetCategory(ctx, cat.ID); err != nil {
			return err
		}
	}
	fresh, err := r.GetCategory(ctx, cat.ID)
	if err != nil {
		return err
	}
	*cat = fresh
	return nil
}

// DeleteCategory hard-deletes the category. The posts.category_id
// foreign key is declared ON DELETE SET NULL, so posts survive.
func (r *CategoryRepo) DeleteCategory(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
