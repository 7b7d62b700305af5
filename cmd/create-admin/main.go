// Command create-admin seeds an administrator account directly in the
// database. Registration through the API requires an authenticated admin, so
// the first admin of a fresh deployment has to be created out of band.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"github.com/dsoria/taskflow-api/internal/config"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
	"github.com/dsoria/taskflow-api/internal/platform/postgres"
)

func main() {
	username := flag.String("username", "", "username for the new admin account")
	password := flag.String("password", "", "password for the new admin account")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("create-admin: both -username and -password are required")
	}

	if err := run(*username, *password); err != nil {
		log.Fatalf("create-admin: %v", err)
	}

	fmt.Printf("admin account %q created\n", *username)
}

func run(username, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	user, err := domain.NewUser(username, password, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("invalid admin account details: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, appLogger)
	if err := userStore.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	return nil
}
