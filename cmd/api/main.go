package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/cms"
	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/handler"
	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/memory"
	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/repository"
	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/session"
	"github.com/AchilleasB/creche-admin/console-service/internal/config"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()
	checks := make(map[string]handler.Pinger)

	var backend services.Backend
	switch cfg.Backend {
	case config.BackendMemory:
		store := memory.NewStore()
		if cfg.BootstrapAdminEmail != "" {
			seedAdmin(store, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		}
		backend = store.Backend()
		log.Println("api: using in-memory backend, data is lost on restart")

	case config.BackendPostgres, config.BackendCMS:
		db := openDatabase(ctx, cfg)
		defer db.Close()
		checks["database"] = handler.PingFunc(db.PingContext)

		identity := repository.NewIdentityRepository(db)
		enrollments := repository.NewEnrollmentRepository(db)

		if cfg.Backend == config.BackendPostgres {
			activity := repository.NewActivityRepository(db)
			backend = services.Backend{
				Facilities:   repository.NewFacilityRepository(db),
				Staff:        repository.NewStaffRepository(db),
				Students:     repository.NewStudentRepository(db),
				Applications: repository.NewApplicationRepository(db),
				Events:       repository.NewEventRepository(db),
				Tickets:      repository.NewTicketRepository(db),
				Articles:     repository.NewArticleRepository(db),
				Attendance:   activity,
				Comments:     activity,
				Enrollments:  enrollments,
			}
		} else {
			remote := cms.NewBackend(cms.NewClient(cfg.CMSBaseURL, cfg.CMSToken, cfg.CMSTimeout))
			backend = services.Backend{
				Facilities:   remote.Facilities,
				Staff:        remote.Staff,
				Students:     remote.Students,
				Applications: remote.Applications,
				Events:       remote.Events,
				Tickets:      remote.Tickets,
				Articles:     remote.Articles,
				Attendance:   remote.Activity,
				Comments:     remote.Activity,
				Enrollments:  cms.NewEnrollments(remote, enrollments),
			}
			log.Printf("api: entity collections served by CMS at %s", cfg.CMSBaseURL)
		}
		backend.Users = identity
		backend.Roles = identity
		backend.Assignments = identity
		backend.Broadcasts = repository.NewBroadcastRepository(db)
	}

	var (
		sessions  ports.SessionStore
		deletions ports.DeletionStore
	)
	if cfg.RedisAddress != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("api: WARNING - redis not reachable at startup: %v", err)
		} else {
			log.Println("api: connected to Redis")
		}
		store := session.NewRedisStore(redisClient)
		sessions, deletions = store, store
		checks["redis"] = store
	} else {
		log.Println("api: REDIS_ADDRESS not set, sessions and deletions kept in process")
		sessions, deletions = memory.NewSessionStore(), memory.NewDeletionStore()
	}

	console := services.NewConsole(backend, sessions, deletions, services.ConsoleConfig{
		PrivateKey:       cfg.JWTPrivateKey,
		PublicKey:        cfg.JWTPublicKey,
		TokenTTL:         cfg.TokenTTL,
		ScopeCacheTTL:    cfg.ScopeCacheTTL,
		DeleteConfirmTTL: cfg.DeleteConfirmTTL,
	})

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.NewRouter(console, handler.RouterConfig{
			LoginURL:       cfg.LoginURL,
			AllowedOrigins: cfg.AllowedOrigins,
			HealthChecks:   checks,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("api: starting server on :%s (backend %s)", cfg.Port, cfg.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("api: could not start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("api: received signal %v, shutting down...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api: error during shutdown: %v", err)
	}
	log.Println("api: shutdown complete")
}

func openDatabase(ctx context.Context, cfg *config.Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("api: failed to open database: %v", err)
	}
	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			log.Fatalf("api: %v", err)
		}
		log.Println("api: database schema is up to date")
	}
	return db
}

// seedAdmin gives a fresh memory backend one administrator with no facilities.
func seedAdmin(store *memory.Store, email, password string) {
	hash, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("api: bootstrap admin: %v", err)
	}
	store.SeedUser(domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  "Administrator",
		RoleID:       memory.RoleAdministratorID,
		PasswordHash: hash,
	})
	log.Printf("api: seeded administrator %s", email)
}
