package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
	"github.com/parthparmar-growexxer/blog-backend/internal/utils"
)

// CategoryHandler exposes the category resource. Reads are public;
// create/update/delete sit behind BearerAuth + RequireAdmin in the
// router.
type CategoryHandler struct {
	Categories store.CategoryStore
}

func NewCategoryHandler(cats store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{Categories: cats}
}

type categoryReq struct {
	Name *string `json:"name"`
}

// List handles GET /api/v1/categories. No pagination; the category set
// is small by construction.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.ListCategories(ctx)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch categories")
	}
	return utils.Respond(c, http.StatusOK, cats, "Categories fetched successfully")
}

// Create handles POST /api/v1/categories (admin only). The slug is
// derived from the name, never taken from the client.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return utils.ValidationFailed(c, map[string][]string{"body": {"The request body is invalid."}})
	}
	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if errs := validateCategoryName(name, true); len(errs) > 0 {
		return utils.ValidationFailed(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := model.Category{Name: name, Slug: utils.Slugify(name)}
	if err := h.Categories.CreateCategory(ctx, &cat); err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to create category")
	}
	return utils.Respond(c, http.StatusOK, cat, "Category created successfully")
}

// Get handles GET /api/v1/categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetCategory(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to fetch category")
	}
	return utils.Respond(c, http.StatusOK, cat, "Category details fetched successfully")
}

// Update handles PUT /api/v1/categories/:id (admin only). Partial: when
// no name is supplied the category is returned unchanged; a new name
// regenerates the slug.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return utils.ValidationFailed(c, map[string][]string{"body": {"The request body is invalid."}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetCategory(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update category")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if errs := validateCategoryName(name, false); len(errs) > 0 {
			return utils.ValidationFailed(c, errs)
		}
		cat.Name = name
		cat.Slug = utils.Slugify(name)
		if err := h.Categories.UpdateCategory(ctx, &cat); err != nil {
			return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to update category")
		}
	}
	return utils.Respond(c, http.StatusOK, cat, "Category updated successfully")
}

// Delete handles DELETE /api/v1/categories/:id (admin only). Posts in
// the category survive; the FK nulls their category_id.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.DeleteCategory(ctx, id); err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, nil, "Category not found")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to delete category")
	}
	return utils.Respond(c, http.StatusOK, nil, "Category deleted successfully")
}

// validateCategoryName shares the name rules between create (required)
// and update (optional but, when present, non-empty).
func validateCategoryName(name string, required bool) map[string][]string {
	errs := map[string][]string{}
	if name == "" {
		if required {
			errs["name"] = append(errs["name"], "The name field is required.")
		} else {
			errs["name"] = append(errs["name"], "The name may not be empty.")
		}
	} else if len(name) > 255 {
		errs["name"] = append(errs["name"], "The name may not be greater than 255 characters.")
	}
	return errs
}

// reqCtx bounds a handler's database work to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
