// Command create-admin adds an administrator account to the Postgres
// identity tables, creating the schema first when it is missing.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/memory"
	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/repository"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

func main() {
	email := flag.String("email", "", "administrator email (required)")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "initial password, at least 8 characters (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*email, *name, *password); err != nil {
		log.Fatalf("create-admin: %v", err)
	}
}

func run(email, name, password string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("create-admin: ignoring unreadable .env file: %v", err)
	}
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		return errors.New("DB_CONNECTION_STRING environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	identity := repository.NewIdentityRepository(db)
	// The scope cache is unused when no facilities are assigned.
	users := services.NewUserService(identity, identity, identity,
		repository.NewFacilityRepository(db),
		services.NewScopeService(identity, memory.NewSessionStore(), time.Minute))

	user, err := users.Bootstrap(ctx, email, name, password)
	if err != nil {
		return err
	}
	log.Printf("create-admin: created administrator %s (%s)", user.Email, user.ID)
	return nil
}
