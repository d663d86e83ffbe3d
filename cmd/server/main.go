// Package main runs the Sledge Mentorship API server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/semzi/sledge/config"
	"github.com/semzi/sledge/internal/admin"
	"github.com/semzi/sledge/internal/auth"
	"github.com/semzi/sledge/internal/checkout"
	"github.com/semzi/sledge/internal/contact"
	"github.com/semzi/sledge/internal/middleware"
	"github.com/semzi/sledge/internal/payments"
	"github.com/semzi/sledge/internal/receipt"
	"github.com/semzi/sledge/internal/registration"
	"github.com/semzi/sledge/internal/schedule"
	"github.com/semzi/sledge/pkg/database"
	"github.com/semzi/sledge/pkg/metrics"
	"github.com/semzi/sledge/pkg/queue"
	"github.com/semzi/sledge/pkg/redis"
	"github.com/semzi/sledge/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.Connect(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	sessions := auth.NewSessionStore(rdb.Client)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	checkoutClient := checkout.New(cfg.Checkout.BaseURL, cfg.Checkout.APIKey)
	summaryCache := receipt.NewSummaryCache(rdb.Client)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, sessions, logger)
	seedAdmin(ctx, authRepo, cfg.Admin, logger)

	// Registration and payment handoff
	registrationRepo := registration.NewRepository(pool)
	paymentRepo := payments.NewRepository(pool)
	registrationHandler := registration.NewHandler(registrationRepo, paymentRepo,
		checkoutClient, summaryCache, cfg.Program, cfg.Checkout, logger)
	paymentHandler := payments.NewHandler(paymentRepo, registrationRepo, checkoutClient, jobQueue, logger)

	// Receipts
	receiptHandler := receipt.NewHandler(registrationRepo, paymentRepo, summaryCache, cfg.Program, logger)

	// Schedule
	scheduleRepo := schedule.NewRepository(pool)
	scheduleHandler := schedule.NewHandler(scheduleRepo, logger)

	// Contact
	contactRepo := contact.NewRepository(pool)
	contactHandler := contact.NewHandler(contactRepo, jobQueue, cfg.Email.AdminInbox, logger)

	// Admin dashboard
	adminRepo := admin.NewRepository(pool)
	adminHandler := admin.NewHandler(adminRepo, logger)

	contactLimiter := middleware.NewRateLimiter(5, 5)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(metrics.HTTPMiddleware())

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/register", registrationHandler.Register)
		api.GET("/verify-payment", paymentHandler.Verify)
		api.POST("/receipt", receiptHandler.Fetch)
		api.GET("/receipt/pdf", receiptHandler.ExportPDF)
		api.GET("/schedule", scheduleHandler.List)
		api.POST("/contact", contactLimiter.Middleware(), contactHandler.Submit)
		api.POST("/auth/login", authHandler.Login)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AdminAuth(jwtService, sessions))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/schedule", scheduleHandler.Create)
		protected.PUT("/schedule/:id", scheduleHandler.Update)
		protected.DELETE("/schedule/:id", scheduleHandler.Delete)
		protected.GET("/admin/registrations", adminHandler.ListRegistrations)
		protected.GET("/admin/dashboard", adminHandler.Dashboard)
		protected.POST("/admin/receipts/lookup", adminHandler.LookupReceipt)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// seedAdmin creates the first admin account from env when the table is
// empty, so a fresh deployment has a working login.
func seedAdmin(ctx context.Context, repo *auth.Repository, cfg config.AdminConfig, logger *zap.Logger) {
	if cfg.Email == "" || cfg.Password == "" {
		return
	}
	n, err := repo.Count(ctx)
	if err != nil {
		logger.Warn("admin count failed, skipping seed", zap.Error(err))
		return
	}
	if n > 0 {
		return
	}
	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		logger.Warn("admin seed failed", zap.Error(err))
		return
	}
	if _, err := repo.Create(ctx, cfg.Email, hash, "Administrator"); err != nil {
		logger.Warn("admin seed failed", zap.Error(err))
		return
	}
	logger.Info("seeded initial admin account", zap.String("email", cfg.Email))
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
