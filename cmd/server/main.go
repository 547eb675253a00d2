package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/tuiter/backend/internal/events"
	"github.com/anonto42/tuiter/backend/internal/middleware"
	"github.com/anonto42/tuiter/backend/internal/repositories"
	"github.com/anonto42/tuiter/backend/internal/router"
	"github.com/anonto42/tuiter/backend/pkg/config"
	"github.com/anonto42/tuiter/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run wires and serves the API until SIGINT/SIGTERM. Returning instead of
// exiting lets the deferred closers release the stores.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize store connections
	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	followRepo := repositories.NewMongoFollowRepository(mongoDB)
	likeRepo := repositories.NewMongoLikeRepository(mongoDB)
	for name, repo := range map[string]interface{ EnsureIndexes(context.Context) error }{
		"follows": followRepo,
		"likes":   likeRepo,
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	log.Println("MongoDB indexes ensured.")

	var likeCounts repositories.LikeCountCache = repositories.NopLikeCountCache{}
	if db.Redis != nil {
		likeCounts = repositories.NewRedisLikeCountCache(db.Redis, cfg.LikeCountTTL)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			return fmt.Errorf("failed to create Kafka publisher: %w", err)
		}
		publisher = kp
		log.Printf("Publishing relationship events to Kafka topic %s.", cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}()

	auth, err := authMiddleware(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize authentication: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	router.SetupMiddleware(e, metrics)
	router.SetupRoutes(e, router.Dependencies{
		Store:      db.Mongo,
		Follows:    followRepo,
		Likes:      likeRepo,
		LikeCounts: likeCounts,
		Publisher:  publisher,
		Auth:       auth,
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Metrics listening on :%s", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics server: %v", err)
	}
	return nil
}

func authMiddleware(ctx context.Context, cfg *config.Config) (echo.MiddlewareFunc, error) {
	switch cfg.AuthMode {
	case config.AuthJWT:
		return middleware.JWTAuthMiddleware(cfg.JWTSecret), nil
	case config.AuthFirebase:
		client, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return middleware.FirebaseAuthMiddleware(client), nil
	default:
		return nil, nil
	}
}
