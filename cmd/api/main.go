package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/config"
	"github.com/BIGvic-Coder/task-manager-api/internal/db"
	apihttp "github.com/BIGvic-Coder/task-manager-api/internal/http"
	"github.com/BIGvic-Coder/task-manager-api/internal/metrics"
	"github.com/BIGvic-Coder/task-manager-api/internal/oauth"
	"github.com/BIGvic-Coder/task-manager-api/internal/repository"
	"github.com/BIGvic-Coder/task-manager-api/internal/service"
	"github.com/BIGvic-Coder/task-manager-api/internal/telemetry"
)

const serviceName = "task-manager-api"

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Insecure:       cfg.Environment == config.EnvLocal,
	}, logger)
	if err != nil {
		logger.Fatal("telemetry setup", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if cfg.RunMigration {
		if err := db.MigratePool(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	checks := map[string]apihttp.PingFunc{
		"postgres": func(ctx context.Context) error { return db.Ping(ctx, pool) },
	}

	stateStore := service.NewMemoryStateStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory oauth state", zap.Error(err))
		} else {
			stateStore = service.NewRedisStateStore(redisClient)
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
		cancel()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	userRepo := repository.NewPgUserRepository(pool)
	taskRepo := repository.NewPgTaskRepository(pool)
	projectRepo := repository.NewPgProjectRepository(pool)
	activityRepo := repository.NewPgActivityLogRepository(pool)

	jwtSvc := service.NewJWTService(cfg.JWTSecret)

	authOpts := []service.AuthServiceOption{service.WithBcryptCost(cfg.BcryptCost)}
	if cfg.GoogleEnabled() {
		callbackURL, err := config.ResolveCallbackURL(cfg.CallbackInputs())
		if err != nil {
			logger.Fatal("resolve google callback", zap.Error(err))
		}
		provider, err := oauth.NewGoogleProvider(ctx, oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  callbackURL,
		})
		if err != nil {
			logger.Fatal("google provider", zap.Error(err))
		}
		authOpts = append(authOpts, service.WithOAuth(provider, stateStore))
		logger.Info("google login enabled", zap.String("callback_url", callbackURL))
	}

	authSvc, err := service.NewAuthService(logger, userRepo, jwtSvc, authOpts...)
	if err != nil {
		logger.Fatal("auth service", zap.Error(err))
	}
	activitySvc := service.NewActivityService(logger, activityRepo)
	taskSvc := service.NewTaskService(taskRepo, activitySvc)
	projectSvc := service.NewProjectService(projectRepo, activitySvc)
	userSvc := service.NewUserService(userRepo, activitySvc)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:         logger,
		Verifier:       jwtSvc,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
		CORSOrigin:     cfg.CORSAllowedOrigin,
		Auth:           apihttp.NewAuthHandler(logger, authSvc, collector),
		Tasks:          apihttp.NewTaskHandler(logger, taskSvc),
		Projects:       apihttp.NewProjectHandler(logger, projectSvc),
		Activity:       apihttp.NewActivityLogHandler(logger, activitySvc),
		Users:          apihttp.NewUserHandler(logger, userSvc),
		Health:         apihttp.NewHealthHandler(logger, checks),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("env", string(cfg.Environment)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
}

func newLogger(env config.Environment) (*zap.Logger, error) {
	if env == config.EnvLocal {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
