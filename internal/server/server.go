package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"anoa.com/reactions/internal/config"
	"anoa.com/reactions/internal/middleware"

	reactionHttp "anoa.com/reactions/internal/modules/reaction/delivery/http"
	reactionRepo "anoa.com/reactions/internal/modules/reaction/repository"
	reactionService "anoa.com/reactions/internal/modules/reaction/service"

	userRepo "anoa.com/reactions/internal/modules/user/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	userRepo := userRepo.NewUserRepository(db)
	origins := allowedOrigins(cfg.AllowedOrigins)

	registry := reactionService.DefaultRegistry()
	reactionRepo := reactionRepo.NewReactionRepository(db)

	reactionSvc := reactionService.NewReactionService(reactionRepo, registry, redisClient, cfg.VoteLockTTL)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)
	streamHandler := reactionHttp.NewResultStreamHandler(reactionSvc, redisClient, checkOrigin(origins))

	adminSvc := reactionService.NewAdminService(reactionRepo, registry)
	adminHandler := reactionHttp.NewAdminHandler(adminSvc)

	router := gin.New()

	setupCORS(router, origins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Results are public; a token only adds the reader's own vote.
	reactions := api.Group("/reactions")
	{
		reactions.GET("/posts/:id/results", authMiddleware.OptionalAuth(), reactionHandler.ListResultsByPost)
		reactions.GET("/:id/result", authMiddleware.OptionalAuth(), reactionHandler.GetResult)
		reactions.GET("/:id/result/ws", authMiddleware.OptionalAuth(), streamHandler.Stream)
		reactions.POST("/:id/vote", authMiddleware.RequireAuth(), reactionHandler.Vote)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
	{
		adminGroup.POST("/reaction-rules", adminHandler.CreateRule)
		adminGroup.GET("/reaction-rules", adminHandler.ListRules)
		adminGroup.GET("/reaction-rules/:id", adminHandler.GetRule)
		adminGroup.DELETE("/reaction-rules/:id", adminHandler.DeleteRule)

		adminGroup.POST("/reaction-instances", adminHandler.CreateInstance)
		adminGroup.GET("/reaction-instances", adminHandler.ListInstances)
		adminGroup.GET("/reaction-instances/:id", adminHandler.GetInstance)
		adminGroup.DELETE("/reaction-instances/:id", adminHandler.DeleteInstance)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Close releases the redis client and the database pool.
func (s *Server) Close() error {
	var errs []error
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		errs = append(errs, fmt.Errorf("get database pool: %w", err))
	} else if err := sqlDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

func allowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

// checkOrigin applies the CORS origin list to websocket upgrades. Requests
// without an Origin header come from non-browser clients and are allowed.
func checkOrigin(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
