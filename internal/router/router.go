package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/parthparmar-growexxer/blog-backend/internal/handler"
)

// Deps carries everything route registration needs: the resource
// handlers plus the middleware built in main from config and the Redis
// client. Cache and RateLimit may be pass-through no-ops when Redis is
// unavailable.
type Deps struct {
	Auth       *handler.AuthHandler
	Posts      *handler.PostHandler
	Categories *handler.CategoryHandler
	Comments   *handler.CommentHandler

	BearerAuth   echo.MiddlewareFunc
	RequireAdmin echo.MiddlewareFunc
	Cache        echo.MiddlewareFunc
	RateLimit    echo.MiddlewareFunc

	UploadDir string
}

// RegisterRoutes registers routes that live outside the API version
// prefix: the health check used by load balancers and the static route
// serving uploaded banner files.
func RegisterRoutes(e *echo.Echo, uploadDir string) {
	e.GET("/healthz", handler.Health)
	e.Static("/uploads", uploadDir)
}

// RegisterAPI wires every /api/v1 endpoint. Three tiers of access:
// public reads (cached), authenticated routes behind BearerAuth, and
// category mutations additionally behind RequireAdmin.
func RegisterAPI(e *echo.Echo, d Deps) {
	api := e.Group("/api/v1", d.RateLimit)

	// Unauthenticated auth operations.
	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.Login)

	// Public reads. The response cache only ever fronts these routes;
	// anything behind authentication must stay uncached.
	api.GET("/posts", d.Posts.ListPublished, d.Cache)
	api.GET("/posts/:id", d.Posts.Get, d.Cache)
	api.GET("/categories", d.Categories.List, d.Cache)
	api.GET("/categories/:id", d.Categories.Get, d.Cache)
	api.GET("/categories/:id/posts", d.Posts.ListByCategory, d.Cache)

	// Everything below requires a valid bearer token.
	auth := api.Group("", d.BearerAuth)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/user", d.Auth.Me)

	// Owner-scoped post CRUD.
	auth.GET("/user/posts", d.Posts.ListMine)
	auth.POST("/user/posts", d.Posts.Create)
	auth.PUT("/user/posts/:id", d.Posts.Update)
	auth.DELETE("/user/posts/:id", d.Posts.Delete)
	auth.PATCH("/user/posts/:id/toggle-publish", d.Posts.TogglePublish)

	// Comments. Listing sits behind auth as well: of the two historical
	// route definitions the stricter one won.
	auth.GET("/posts/:id/comments", d.Comments.List)
	auth.POST("/posts/:id/comments", d.Comments.Create)
	auth.DELETE("/comments/:id", d.Comments.Delete)

	// Category mutations are admin-only.
	admin := api.Group("", d.BearerAuth, d.RequireAdmin)
	admin.POST("/categories", d.Categories.Create)
	admin.PUT("/categories/:id", d.Categories.Update)
	admin.DELETE("/categories/:id", d.Categories.Delete)
}
