package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parthparmar-growexxer/blog-backend/internal/middleware"
	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/queue"
	"github.com/parthparmar-growexxer/blog-backend/internal/storage"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
	"github.com/parthparmar-growexxer/blog-backend/internal/utils"
)

// PostHandler exposes the post resource: public reads of published
// posts, owner-scoped CRUD under /user/posts, and the publish toggle.
// PublishEvent is called on the draft->published transition; it may be
// nil (tests) and its error is never surfaced to the client.
type PostHandler struct {
	Posts        store.PostStore
	Categories   store.CategoryStore
	Banners      *storage.BannerStore
	PublishEvent func(ctx context.Context, ev queue.PostPublishedEvent) error
}

func NewPostHandler(posts store.PostStore, cats store.CategoryStore, banners *storage.BannerStore) *PostHandler {
	return &PostHandler{Posts: posts, Categories: cats, Banners: banners}
}

// ListMine handles GET /api/v1/user/posts: every post of the caller,
// drafts included, with user and category joined.
func (h *PostHandler) ListMine(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, err := h.Posts.ListByUser(ctx, u.ID)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch posts")
	}
	return utils.Respond(c, http.StatusOK, posts, "Posts fetched successfully")
}

// ListPublished handles GET /api/v1/posts: the public feed, published
// posts only.
func (h *PostHandler) ListPublished(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, err := h.Posts.ListPublished(ctx)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch posts")
	}
	return utils.Respond(c, http.StatusOK, posts, "Posts fetched successfully")
}

// ListByCategory handles GET /api/v1/categories/:id/posts. Only
// published posts are returned: the route is public and drafts belong
// to their author alone.
func (h *PostHandler) ListByCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Categories.GetCategory(ctx, id); err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch posts")
	}
	posts, err := h.Posts.ListPublishedByCategory(ctx, id)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch posts")
	}
	return utils.Respond(c, http.StatusOK, posts, "Posts fetched successfully")
}

// Get handles GET /api/v1/posts/:id.
func (h *PostHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch post")
	}
	return utils.Respond(c, http.StatusOK, p, "Post fetched successfully")
}

// Create handles POST /api/v1/user/posts. Accepts JSON or multipart
// (the latter for banner uploads); the slug is derived from the title
// with a unix-seconds suffix.
func (h *PostHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}
	in, errs := h.bindPostInput(c)
	if len(errs) > 0 {
		return utils.ValidationFailed(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	errs = map[string][]string{}
	title := strings.TrimSpace(deref(in.Title))
	content := deref(in.Content)
	if title == "" {
		errs["title"] = append(errs["title"], "The title field is required.")
	} else if len(title) > 255 {
		errs["title"] = append(errs["title"], "The title may not be greater than 255 characters.")
	}
	if strings.TrimSpace(content) == "" {
		errs["content"] = append(errs["content"], "The content field is required.")
	}
	if in.CategoryID != nil {
		if msg := h.checkCategory(ctx, *in.CategoryID); msg != "" {
			errs["category_id"] = append(errs["category_id"], msg)
		}
	}
	if len(errs) > 0 {
		return utils.ValidationFailed(c, errs)
	}

	p := model.Post{
		UserID:      u.ID,
		CategoryID:  in.CategoryID,
		Title:       title,
		Slug:        utils.PostSlug(title),
		Content:     content,
		IsPublished: in.IsPublished != nil && *in.IsPublished,
	}
	if in.BannerPath != "" {
		p.Banner = &in.BannerPath
	}
	if err := h.Posts.CreatePost(ctx, &p); err != nil {
		h.Banners.Remove(in.BannerPath) // do not leave orphaned uploads around
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to create post")
	}
	return utils.Respond(c, http.StatusCreated, p, "Post created successfully")
}

// Update handles PUT /api/v1/user/posts/:id. Partial update: only the
// supplied fields change, a new title regenerates the slug, a new
// banner replaces (and removes) the old file. 404 before 403: an absent
// post must not reveal anything about ownership.
func (h *PostHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update post")
	}
	if !canMutate(u, p.UserID) {
		return utils.Respond(c, http.StatusForbidden, nil, "Unauthorized")
	}

	in, errs := h.bindPostInput(c)
	if len(errs) > 0 {
		return utils.ValidationFailed(c, errs)
	}

	upd := store.PostUpdate{Content: in.Content, IsPublished: in.IsPublished}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return utils.ValidationFailed(c, map[string][]string{"title": {"The title may not be empty."}})
		}
		if len(title) > 255 {
			return utils.ValidationFailed(c, map[string][]string{"title": {"The title may not be greater than 255 characters."}})
		}
		slug := utils.PostSlug(title)
		upd.Title = &title
		upd.Slug = &slug
	}
	if in.ClearCategory {
		upd.ClearCat = true
	} else if in.CategoryID != nil {
		if msg := h.checkCategory(ctx, *in.CategoryID); msg != "" {
			return utils.ValidationFailed(c, map[string][]string{"category_id": {msg}})
		}
		upd.CategoryID = in.CategoryID
	}
	oldBanner := ""
	if in.BannerPath != "" {
		upd.Banner = &in.BannerPath
		if p.Banner != nil {
			oldBanner = *p.Banner
		}
	}

	if err := h.Posts.UpdatePost(ctx, id, upd); err != nil {
		h.Banners.Remove(in.BannerPath)
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update post")
	}
	// The replaced banner is gone from the row; drop the file too.
	h.Banners.Remove(oldBanner)

	fresh, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update post")
	}
	return utils.Respond(c, http.StatusOK, fresh, "Post updated successfully")
}

// TogglePublish handles PATCH /api/v1/user/posts/:id/toggle-publish.
// The response message reflects the new state; the draft->published
// transition emits a post.published event.
func (h *PostHandler) TogglePublish(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update post")
	}
	if !canMutate(u, p.UserID) {
		return utils.Respond(c, http.StatusForbidden, nil, "Unauthorized")
	}

	next := !p.IsPublished
	if err := h.Posts.SetPublished(ctx, id, next); err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update post")
	}
	fresh, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update post")
	}

	msg := "Post unpublished successfully"
	if next {
		msg = "Post published successfully"
		h.emitPublished(ctx, fresh)
	}
	return utils.Respond(c, http.StatusOK, fresh, msg)
}

// Delete handles DELETE /api/v1/user/posts/:id. Comments cascade in the
// database; the banner file is removed best-effort.
func (h *PostHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Post not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to delete post")
	}
	if !canMutate(u, p.UserID) {
		return utils.Respond(c, http.StatusForbidden, nil, "Unauthorized")
	}

	if err := h.Posts.DeletePost(ctx, id); err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to delete post")
	}
	if p.Banner != nil {
		h.Banners.Remove(*p.Banner)
	}
	return utils.Respond(c, http.StatusOK, nil, "Post deleted successfully")
}

// ----- input binding -----

// postInput is the normalized create/update payload after JSON or
// multipart parsing. Nil pointers mean "not supplied"; ClearCategory is
// set when the client sent an explicit null/empty category_id.
type postInput struct {
	Title         *string
	Content       *string
	CategoryID    *uint64
	ClearCategory bool
	IsPublished   *bool
	BannerPath    string
}

// postJSONReq keeps category_id as raw JSON so that an explicit null
// (clear the category) is distinguishable from an absent key.
type postJSONReq struct {
	Title       *string         `json:"title"`
	Content     *string         `json:"content"`
	CategoryID  json.RawMessage `json:"category_id"`
	IsPublished *bool           `json:"is_published"`
}

// bindPostInput reads the request body in either encoding and, for
// multipart requests, stores an uploaded banner. Returned field errors
// are ready for ValidationFailed.
func (h *PostHandler) bindPostInput(c echo.Context) (postInput, map[string][]string) {
	var in postInput
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		return h.bindMultipart(c)
	}

	var req postJSONReq
	if err := c.Bind(&req); err != nil {
		return in, map[string][]string{"body": {"The request body is invalid."}}
	}
	in.Title = req.Title
	in.Content = req.Content
	in.IsPublished = req.IsPublished
	if len(req.CategoryID) > 0 {
		if string(req.CategoryID) == "null" {
			in.ClearCategory = true
		} else {
			var id uint64
			if err := json.Unmarshal(req.CategoryID, &id); err != nil {
				return in, map[string][]string{"category_id": {"The selected category id is invalid."}}
			}
			in.CategoryID = &id
		}
	}
	return in, nil
}

func (h *PostHandler) bindMultipart(c echo.Context) (postInput, map[string][]string) {
	var in postInput
	if v, ok := formLookup(c, "title"); ok {
		in.Title = &v
	}
	if v, ok := formLookup(c, "content"); ok {
		in.Content = &v
	}
	if v, ok := formLookup(c, "category_id"); ok {
		if v == "" || v == "null" {
			in.ClearCategory = true
		} else {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return in, map[string][]string{"category_id": {"The selected category id is invalid."}}
			}
			in.CategoryID = &id
		}
	}
	if v, ok := formLookup(c, "is_published"); ok {
		b := v == "1" || strings.EqualFold(v, "true")
		in.IsPublished = &b
	}

	fh, err := c.FormFile("banner")
	if err != nil {
		// http.ErrMissingFile and multipart parse errors both land here;
		// a missing banner is simply not an upload.
		return in, nil
	}
	path, err := h.Banners.Save(fh)
	if err != nil {
		switch err {
		case storage.ErrBannerType:
			return in, map[string][]string{"banner": {"The banner must be a jpg, jpeg, png or webp image."}}
		case storage.ErrBannerTooLarge:
			return in, map[string][]string{"banner": {"The banner exceeds the maximum allowed size."}}
		default:
			return in, map[string][]string{"banner": {"The banner could not be stored."}}
		}
	}
	in.BannerPath = path
	return in, nil
}

// formLookup reports whether the multipart form carries the key at all,
// so empty-but-present values can clear fields.
func formLookup(c echo.Context, key string) (string, bool) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return "", false
	}
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// checkCategory returns a validation message when the category id does
// not reference an existing row.
func (h *PostHandler) checkCategory(ctx context.Context, id uint64) string {
	if _, err := h.Categories.GetCategory(ctx, id); err != nil {
		return "The selected category id is invalid."
	}
	return ""
}

// canMutate implements the owner-or-admin policy shared by posts and
// comments.
func canMutate(u model.User, ownerID uint64) bool {
	return u.ID == ownerID || u.IsAdmin()
}

// emitPublished fires the queue event; failures are logged, never
// surfaced, so the broker cannot break the request path.
func (h *PostHandler) emitPublished(ctx context.Context, p model.Post) {
	if h.PublishEvent == nil {
		return
	}
	ev := queue.PostPublishedEvent{
		PostID:      p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Slug:        p.Slug,
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if p.User != nil {
		ev.AuthorName = p.User.Name
	}
	if p.Category != nil {
		ev.CategoryName = p.Category.Name
	}
	if err := h.PublishEvent(ctx, ev); err != nil {
		log.Printf("handler: publish event for post %d: %v", p.ID, err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
