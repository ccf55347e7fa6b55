package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/adapters/event"
	httpAdapter "github.com/khoahotran/spotme/adapters/http"
	"github.com/khoahotran/spotme/adapters/media_storage"
	"github.com/khoahotran/spotme/adapters/persistence"
	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/session"
	authUC "github.com/khoahotran/spotme/internal/application/usecase/auth"
	portfolioUC "github.com/khoahotran/spotme/internal/application/usecase/portfolio"
	"github.com/khoahotran/spotme/internal/config"
	"github.com/khoahotran/spotme/pkg/auth"
	"github.com/khoahotran/spotme/pkg/logger"
	"github.com/khoahotran/spotme/pkg/metrics"
	"github.com/khoahotran/spotme/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start SpotMe API Server...")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tp, err := tracing.NewTracerProvider(cfg, appLogger, "spotme-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer tp.Shutdown(context.Background())

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.New(registry)
	if err != nil {
		appLogger.Fatal("Cannot register metrics", err)
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	var events service.EventPublisher
	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Kafka disabled, publish events will not be emitted", zap.Error(err))
	} else {
		defer kafkaClient.Close()
		events = kafkaClient
	}

	storage, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize asset storage", err)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	portfolioRepo := persistence.NewPostgresPortfolioRepo(dbPool, appLogger)
	publicCache := persistence.NewRedisPortfolioCache(redisClient, cfg.Redis.PublicTTL)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Editing sessions
	sessions, err := session.NewRegistry(cfg.Session.MaxSessions, session.Deps{
		Persister:     portfolioRepo,
		Storage:       storage,
		Images:        media_storage.NewAvatarProcessor(),
		Notifier:      service.NewLogNotifier(appLogger),
		Events:        events,
		Cache:         publicCache,
		PublicBaseURL: cfg.App.PublicBaseURL,
		Logger:        appLogger,
		Metrics:       appMetrics,
	})
	if err != nil {
		appLogger.Fatal("Cannot create session registry", err)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	getPublicUseCase := portfolioUC.NewGetPublicPortfolioUseCase(portfolioRepo, publicCache, appLogger, appMetrics)
	rssUseCase := portfolioUC.NewRSSUseCase(portfolioRepo, cfg.App.PublicBaseURL, appLogger)

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Auth:     httpAdapter.NewAuthHandler(loginUseCase, appLogger),
		Editor:   httpAdapter.NewEditorHandler(sessions, appLogger),
		Public:   httpAdapter.NewPublicHandler(getPublicUseCase, rssUseCase, appLogger),
		JWT:      jwtSvc,
		Gatherer: registry,
		Logger:   appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
