package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"libraryhub/database"
	"libraryhub/internal/api/handler"
	"libraryhub/internal/api/middleware"
	"libraryhub/internal/api/repository"
	"libraryhub/internal/api/service"
	"libraryhub/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer database.Close(db)

	sessions, err := repository.NewSessionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RefreshTokenTTL)
	if err != nil {
		// the cache is an accelerator, not a dependency
		logger.Warn("session cache unavailable, falling back to database lookups", "error", err)
		sessions = nil
	} else {
		defer sessions.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	genreRepo := repository.NewGenreRepo(db)
	bookRepo := repository.NewBookRepo(db)
	borrowRepo := repository.NewBorrowRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, sessions, cfg)
	memberService := service.NewMemberService(userRepo)
	genreService := service.NewGenreService(genreRepo)
	bookService := service.NewBookService(bookRepo)
	borrowService := service.NewBorrowService(borrowRepo, bookRepo, userRepo, cfg.LoanPeriodDays)

	// Bootstrap the admin account when configured
	if cfg.AdminUsername != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := memberService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			cancel()
			log.Fatalf("could not bootstrap admin account: %v", err)
		}
		cancel()
		logger.Info("admin account ready", "username", cfg.AdminUsername)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, int64(cfg.AccessTokenTTL.Seconds()))
	genreHandler := handler.NewGenreHandler(genreService)
	bookHandler := handler.NewBookHandler(bookService)
	borrowHandler := handler.NewBorrowHandler(borrowService)
	memberHandler := handler.NewMemberHandler(memberService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public credential endpoints, rate limited per client
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
	r.POST("/register", loginLimiter.Handler(), authHandler.Register)
	r.POST("/login", loginLimiter.Handler(), authHandler.Login)
	r.POST("/auth/refresh", loginLimiter.Handler(), authHandler.RefreshToken)
	r.POST("/auth/revoke", authHandler.RevokeToken)

	// Everything below requires a valid bearer token
	authed := r.Group("/", middleware.AuthMiddleware(authService))
	genreHandler.RegisterRoutes(authed.Group("genres"))
	bookHandler.RegisterRoutes(authed.Group("books"))
	borrowHandler.RegisterRoutes(authed.Group("borrow-records"))
	memberHandler.RegisterRoutes(authed.Group("members"), authed.Group("groups"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
