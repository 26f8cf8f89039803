package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"gigboard/internal/app"
	"gigboard/internal/config"
	"gigboard/internal/database"
	apphttp "gigboard/internal/http"
	"gigboard/internal/http/handlers"
	"gigboard/internal/http/metrics"
	httpmw "gigboard/internal/http/middleware"
	"gigboard/internal/http/response"
	"gigboard/internal/observability"
	"gigboard/internal/repository/postgres"
	"gigboard/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	userService := app.NewUserService(userRepo, analyticsRepo)
	jobService := app.NewJobService(jobRepo, userRepo, analyticsRepo)
	applicationService := app.NewApplicationService(applicationRepo, jobRepo, userRepo, messageRepo, analyticsRepo)
	messageService := app.NewMessageService(messageRepo, applicationRepo, userRepo, analyticsRepo)
	statsService := app.NewStatsService(applicationRepo, jobRepo, userRepo)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)

	var rateLimiter httpmw.Limiter
	if cfg.RedisAddr != "" {
		rateLimiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		rateLimiter = httpmw.NewRateLimiter()
	}

	userHandler := handlers.NewUserHandler(userService)
	jobHandler := handlers.NewJobHandler(jobService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, rateLimiter)
	messageHandler := handlers.NewMessageHandler(messageService, rateLimiter)
	statsHandler := handlers.NewStatsHandler(statsService)
	middleware := httpmw.NewAuthMiddleware(jwtProvider, userRepo)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		UserHandler:        userHandler,
		JobHandler:         jobHandler,
		ApplicationHandler: applicationHandler,
		MessageHandler:     messageHandler,
		StatsHandler:       statsHandler,
		MetricsHandler:     handlers.NewMetricsHandler(collector),
		AuthMiddleware:     middleware,
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
