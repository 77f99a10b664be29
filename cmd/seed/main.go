// Command seed creates or promotes an admin user. Registration through
// the API always produces author-role accounts, so the first admin has
// to come from here.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/parthparmar-growexxer/blog-backend/internal/config"
	"github.com/parthparmar-growexxer/blog-backend/internal/database"
	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/repository"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
	"github.com/parthparmar-growexxer/blog-backend/internal/utils"
)

func main() {
	name := flag.String("name", "Admin", "display name for a newly created admin")
	email := flag.String("email", "", "email of the user to create or promote (required)")
	password := flag.String("password", "", "password when creating a new user")
	flag.Parse()

	if *email == "" {
		log.Fatal("missing -email")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)

	// Promote when the account already exists; create otherwise.
	u, err := users.GetUserByEmail(ctx, *email)
	switch err {
	case nil:
		if u.Role == model.RoleAdmin {
			fmt.Printf("%s is already an admin\n", u.Email)
			return
		}
		if err := users.SetRole(ctx, u.ID, model.RoleAdmin); err != nil {
			log.Fatalf("promote: %v", err)
		}
		fmt.Printf("promoted %s to admin\n", u.Email)
	case store.ErrNotFound:
		if *password == "" {
			log.Fatal("missing -password (required when the user does not exist yet)")
		}
		if len(*password) < 6 {
			log.Fatal("password must be at least 6 characters")
		}
		hash, err := utils.HashPassword(*password, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		nu := model.User{Name: *name, Email: *email, PasswordHash: hash}
		if err := users.CreateUser(ctx, &nu); err != nil {
			log.Fatalf("create user: %v", err)
		}
		if err := users.SetRole(ctx, nu.ID, model.RoleAdmin); err != nil {
			log.Fatalf("promote: %v", err)
		}
		fmt.Printf("created admin %s (id=%d)\n", nu.Email, nu.ID)
	default:
		log.Fatalf("lookup: %v", err)
	}
}
