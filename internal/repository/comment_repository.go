package repository

import (
	"context"
	"database/sql"

	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
)

// CommentRepo persists comments.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// CreateComment inserts the comment and reads back the stored row.
func (r *CommentRepo) CreateComment(ctx context.Context, cm *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (post_id, user_id, body, is_approved) VALUES (?,?,?,?)",
		cm.PostID, cm.UserID, cm.Body, cm.IsApproved)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetComment(ctx, uint64(id))
	if err != nil {
		return err
	}
	// GetComment embeds the author; creation responses return the bare row.
	fresh.User = nil
	*cm = fresh
	return nil
}

// ListByPost returns the comments of a post, oldest first, with the
// author's name and email joined in.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT cm.id, cm.post_id, cm.user_id, cm.body, cm.is_approved, cm.created_at, cm.updated_at, u.name, u.email
		 FROM comments cm JOIN users u ON u.id = cm.user_id
		 WHERE cm.post_id=? ORDER BY cm.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		var (
			cm model.Comment
			au model.CommentAuthor
		)
		if err := rows.Scan(&cm.ID, &cm.PostID, &cm.UserID, &cm.Body, &cm.IsApproved, &cm.CreatedAt, &cm.UpdatedAt, &au.Name, &au.Email); err != nil {
			return nil, err
		}
		cm.User = &au
		out = append(out, cm)
	}
	return out, rows.Err()
}

// GetComment fetches a single comment with its author joined.
func (r *CommentRepo) GetComment(ctx context.Context, id uint64) (model.Comment, error) {
	var (
		cm model.Comment
		au model.CommentAuthor
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT cm.id, cm.post_id, cm.user_id, cm.body, cm.is_approved, cm.created_at, cm.updated_at, u.name, u.email
		 FROM comments cm JOIN users u ON u.id = cm.user_id
		 WHERE cm.id=? LIMIT 1`, id).
		Scan(&cm.ID, &cm.PostID, &cm.UserID, &cm.Body, &cm.IsApproved, &cm.CreatedAt, &cm.UpdatedAt, &au.Name, &au.Email)
	if err == sql.ErrNoRows {
		return cm, store.ErrNotFound
	}
	if err != nil {
		return cm, err
	}
	cm.User = &au
	return cm, nil
}

// DeleteComment hard-deletes the comment.
func (r *CommentRepo) DeleteComment(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
