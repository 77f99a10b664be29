package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/parthparmar-growexxer/blog-backend/internal/middleware"
	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
	"github.com/parthparmar-growexxer/blog-backend/internal/utils"
)

// CommentHandler exposes comments scoped under a post. Listing and
// creation require authentication; deletion is owner-or-admin.
type CommentHandler struct {
	Comments store.CommentStore
	Posts    store.PostStore
}

func NewCommentHandler(comments store.CommentStore, posts store.PostStore) *CommentHandler {
	return &CommentHandler{Comments: comments, Posts: posts}
}

// commentReq binds the create payload. The field is named `content` on
// the wire but stored as the comment body.
type commentReq struct {
	Content string `json:"content"`
}

// List handles GET /api/v1/posts/:id/comments: the post's comments with
// the author's name and email embedded.
func (h *CommentHandler) List(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Posts.GetPost(ctx, postID); err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch comments")
	}
	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch comments")
	}
	return utils.Respond(c, http.StatusOK, comments, "Comments fetched successfully")
}

// Create handles POST /api/v1/posts/:id/comments. New comments are
// approved right away; the is_approved column is kept for a moderation
// flow that never shipped.
func (h *CommentHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return utils.ValidationFailed(c, map[string][]string{"body": {"The request body is invalid."}})
	}
	if strings.TrimSpace(req.Content) == "" {
		return utils.ValidationFailed(c, map[string][]string{"content": {"The content field is required."}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Posts.GetPost(ctx, postID); err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to create comment")
	}

	cm := model.Comment{
		PostID:     postID,
		UserID:     u.ID,
		Body:       req.Content,
		IsApproved: true,
	}
	if err := h.Comments.CreateComment(ctx, &cm); err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to create comment")
	}
	return utils.Respond(c, http.StatusCreated, cm, "Comment created successfully")
}

// Delete handles DELETE /api/v1/comments/:id. 404 before 403, same as
// posts.
func (h *CommentHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Comment not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.Comments.GetComment(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Comment not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to delete comment")
	}
	if !canMutate(u, cm.UserID) {
		return utils.Respond(c, http.StatusForbidden, nil, "Unauthorized")
	}

	if err := h.Comments.DeleteComment(ctx, id); err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to delete comment")
	}
	return utils.Respond(c, http.StatusOK, nil, "Comment deleted successfully")
}
