package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/reactions/internal/bootstrap"
	"anoa.com/reactions/internal/config"
	"anoa.com/reactions/internal/middleware"
	userRepo "anoa.com/reactions/internal/modules/user/repository"
	"anoa.com/reactions/internal/server"
	"anoa.com/reactions/pkg/database"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.IsDevelopment() {
		admin, err := bootstrap.SeedAdminUser(context.Background(), userRepo.NewUserRepository(db), cfg.AdminUsername)
		if err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
		if err := bootstrap.SeedDefaultRules(db); err != nil {
			log.Fatalf("failed to seed reaction rules: %v", err)
		}

		token, err := middleware.IssueToken(cfg.JWTSecret, admin.ID.String(), 24*time.Hour)
		if err != nil {
			log.Fatalf("failed to issue admin token: %v", err)
		}
		log.Printf("Development admin token: %s", token)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Printf("Redis unavailable, running without vote locks and live results: %v", err)
		redisClient = nil
	}

	srv := server.NewServer(db, redisClient, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	log.Printf("Server listening on :%s", cfg.Port)
	runErr := srv.Run(ctx, ":"+cfg.Port)
	stop()

	if err := srv.Close(); err != nil {
		log.Printf("failed to release connections: %v", err)
	}
	if runErr != nil {
		log.Fatalf("server exited with error: %v", runErr)
	}
	log.Println("Server stopped")
}
