package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
)

// PostRepo persists posts. Read methods eager-load the owning user and
// the category (when set) with explicit joins instead of follow-up
// queries.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// postSelect is the shared projection for joined post reads. The user
// join is inner (every post has an owner); the category join is left
// because category_id is nullable.
const postSelect = `SELECT p.id, p.user_id, p.category_id, p.title, p.slug, p.content, p.banner, p.is_published, p.created_at, p.updated_at,
	u.id, u.name, u.email, u.role, u.created_at, u.updated_at,
	c.id, c.name, c.slug, c.created_at, c.updated_at
	FROM posts p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN categories c ON c.id = p.category_id`

// CreatePost inserts the post and reads back the stored row.
func (r *PostRepo) CreatePost(ctx context.Context, p *model.Post) error {
	var catID any
	if p.CategoryID != nil {
		catID = *p.CategoryID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (user_id, category_id, title, slug, content, banner, is_published) VALUES (?,?,?,?,?,?,?)",
		p.UserID, catID, p.Title, p.Slug, p.Content, p.Banner, p.IsPublished)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetPost(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = fresh
	return nil
}

// GetPost fetches a single post with its user and category joined.
func (r *PostRepo) GetPost(ctx context.Context, id uint64) (model.Post, error) {
	row := r.DB.QueryRowContext(ctx, postSelect+" WHERE p.id=? LIMIT 1", id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return p, store.ErrNotFound
	}
	return p, err
}

// ListByUser returns every post owned by the user, newest first.
func (r *PostRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Post, error) {
	return r.list(ctx, " WHERE p.user_id=? ORDER BY p.id DESC", userID)
}

// ListPublished returns published posts only, newest first.
func (r *PostRepo) ListPublished(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, " WHERE p.is_published=1 ORDER BY p.id DESC")
}

// ListPublishedByCategory returns the published posts of one category.
// Drafts stay private to their owner even when the category is public.
func (r *PostRepo) ListPublishedByCategory(ctx context.Context, categoryID uint64) ([]model.Post, error) {
	return r.list(ctx, " WHERE p.category_id=? AND p.is_published=1 ORDER BY p.id DESC", categoryID)
}

// UpdatePost applies a partial update. Only non-nil fields are written;
// ClearCat explicitly nulls category_id since a nil pointer means
// "unchanged" here.
func (r *PostRepo) UpdatePost(ctx context.Context, id uint64, upd store.PostUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, *upd.Title)
	}
	if upd.Slug != nil {
		sets = append(sets, "slug=?")
		args = append(args, *upd.Slug)
	}
	if upd.Content != nil {
		sets = append(sets, "content=?")
		args = append(args, *upd.Content)
	}
	if upd.ClearCat {
		sets = append(sets, "category_id=NULL")
	} else if upd.CategoryID != nil {
		sets = append(sets, "category_id=?")
		args = append(args, *upd.CategoryID)
	}
	if upd.IsPublished != nil {
		sets = append(sets, "is_published=?")
		args = append(args, *upd.IsPublished)
	}
	if upd.Banner != nil {
		sets = append(sets, "banner=?")
		args = append(args, *upd.Banner)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

// SetPublished flips the publish flag to the given value.
func (r *PostRepo) SetPublished(ctx context.Context, id uint64, published bool) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE posts SET is_published=? WHERE id=?", published, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetPost(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeletePost hard-deletes the post; comments cascade via the FK.
func (r *PostRepo) DeletePost(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *PostRepo) list(ctx context.Context, tail string, args ...any) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx, postSelect+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// rowScanner lets scanPost work for both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanPost(row rowScanner) (model.Post, error) {
	var (
		p       model.Post
		u       model.User
		catID   sql.NullInt64
		banner  sql.NullString
		cID     sql.NullInt64
		cName   sql.NullString
		cSlug   sql.NullString
		cCreate sql.NullTime
		cUpdate sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.UserID, &catID, &p.Title, &p.Slug, &p.Content, &banner, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt,
		&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		&cID, &cName, &cSlug, &cCreate, &cUpdate,
	)
	if err != nil {
		return p, err
	}
	if catID.Valid {
		v := uint64(catID.Int64)
		p.CategoryID = &v
	}
	if banner.Valid {
		v := banner.String
		p.Banner = &v
	}
	p.User = &u
	if cID.Valid {
		p.Category = &model.Category{
			ID:        uint64(cID.Int64),
			Name:      cName.String,
			Slug:      cSlug.String,
			CreatedAt: cCreate.Time,
			UpdatedAt: cUpdate.Time,
		}
	}
	return p, nil
}
