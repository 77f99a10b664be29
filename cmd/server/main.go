package main // Entry point package

import (
	"context" // context for the startup migration
	"log"     // Logging library

	"github.com/joho/godotenv"    // loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/parthparmar-growexxer/blog-backend/internal/config"
	"github.com/parthparmar-growexxer/blog-backend/internal/database"
	"github.com/parthparmar-growexxer/blog-backend/internal/handler"
	"github.com/parthparmar-growexxer/blog-backend/internal/middleware"
	"github.com/parthparmar-growexxer/blog-backend/internal/queue"
	"github.com/parthparmar-growexxer/blog-backend/internal/repository"
	"github.com/parthparmar-growexxer/blog-backend/internal/router"
	queue_publisher "github.com/parthparmar-growexxer/blog-backend/internal/service"
	"github.com/parthparmar-growexxer/blog-backend/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	banners := storage.NewBannerStore(cfg.UploadDir, cfg.MaxBannerBytes)

	postHandler := handler.NewPostHandler(posts, categories, banners)
	postHandler.PublishEvent = queue_publisher.PublishPostPublished

	// Redis backs the public response cache and the rate limiter; both
	// degrade to pass-through middleware when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e, cfg.UploadDir)
	router.RegisterAPI(e, router.Deps{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Posts:        postHandler,
		Categories:   handler.NewCategoryHandler(categories),
		Comments:     handler.NewCommentHandler(comments, posts),
		BearerAuth:   middleware.BearerAuth(tokens, users),
		RequireAdmin: middleware.RequireAdmin(),
		Cache:        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		UploadDir:    cfg.UploadDir,
	})

	// The publish consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartPublishConsumer(); err != nil {
			log.Printf("publish consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
