package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"valentine-server/internal/config"
	"valentine-server/internal/handler"
	"valentine-server/internal/logger"
	"valentine-server/internal/middleware"
	"valentine-server/internal/models"
	"valentine-server/internal/repository"
	"valentine-server/internal/service"
	"valentine-server/migrations"
	"valentine-server/pkg/migration"
)

func main() {
	log.Println("Starting letter server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger initialized", zap.String("level", cfg.LogLevel))

	pool, err := connectPostgres(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, pool)
	if err := migrator.Up(); err != nil {
		zapLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Dependency wiring
	tokenRepo := repository.NewPgTokenRepository(pool, zapLogger)
	hub := handler.NewProgressHub(cfg.GetAllowedOrigins(), zapLogger)

	var aiClient service.AIClient
	var imageClient service.ImageClient
	if cfg.AIAPIKey != "" {
		aiClient = service.NewAIClient(cfg, zapLogger)
		if cfg.AIImages {
			imageClient = service.NewImageClient(cfg, zapLogger)
		}
	} else {
		zapLogger.Warn("AI_API_KEY is not set, generation will use the fallback templates")
	}

	generator := service.NewEmailGenerator(aiClient, imageClient, hub,
		models.ProductShape(cfg.ProductShape), zapLogger)
	paymentService := service.NewPaymentService(cfg, zapLogger)
	gmailService := service.NewGmailService(cfg, tokenRepo, zapLogger)

	h := handler.NewLetterHandler(paymentService, generator, gmailService, hub, zapLogger)

	// Gin setup
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.GinZapLogger(zapLogger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.GetAllowedOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	prom := ginprometheus.NewPrometheus("gin")
	prom.Use(router)

	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}

func connectPostgres(cfg *config.Config, zapLogger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	zapLogger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)
	return pool, nil
}
