package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsio "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	catalogadapter "github.com/mumbramart/storefront-service/internal/adapter/catalog"
	mongoadapter "github.com/mumbramart/storefront-service/internal/adapter/mongo"
	natsadapter "github.com/mumbramart/storefront-service/internal/adapter/nats"
	redisadapter "github.com/mumbramart/storefront-service/internal/adapter/redis"
	"github.com/mumbramart/storefront-service/internal/app/config"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/platform/metrics"
	httpport "github.com/mumbramart/storefront-service/internal/port/http"
	"github.com/mumbramart/storefront-service/internal/position"
	"github.com/mumbramart/storefront-service/internal/ranking"
	"github.com/mumbramart/storefront-service/internal/service"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	storefront  service.StorefrontService
	metrics     *metrics.Manager
	resolver    *position.Resolver
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *natsio.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	metricsManager := metrics.NewManager("storefront_service")

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Connecting to NATS...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	appLogger.Info("NATS connection established")

	publisher, err := natsadapter.NewPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	resolver, err := position.NewResolver(cfg.GeoIP.DatabasePath, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database: %w", err)
	}

	catalogStore := mongoadapter.NewCatalogStore(mongoClient, cfg.MongoDB.Database)
	cartRepo := redisadapter.NewCartRepository(redisClient)
	watcher := catalogadapter.NewWatcher(catalogStore, natsConn, appLogger)

	engine := ranking.NewEngine(ranking.Config{
		NearbyThresholdKm: cfg.Ranking.ThresholdKm,
		SortAllByDistance: cfg.Ranking.SortAllByDistance,
	})

	storefront := service.NewStorefrontService(watcher, engine, appLogger, metricsManager)
	cartService := service.NewCartService(cartRepo, catalogStore, appLogger, metricsManager, service.CartServiceConfig{
		CartTTL: cfg.Cart.TTL,
	})
	adminService := service.NewCatalogAdminService(catalogStore, publisher, appLogger, metricsManager)

	handlers := httpport.Handlers{
		Storefront: httpport.NewStorefrontHandler(storefront, resolver, appLogger),
		Cart:       httpport.NewCartHandler(cartService, appLogger),
		Admin:      httpport.NewAdminHandler(adminService, appLogger),
	}
	server := httpport.NewServer(cfg.HTTPServer, cfg.Auth.JWTSecret, handlers, metricsManager, appLogger)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		storefront:  storefront,
		metrics:     metricsManager,
		resolver:    resolver,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	// The catalog subscription lives for the whole process; cancelling
	// runCtx on shutdown tears it down.
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	if err := a.storefront.Start(runCtx); err != nil {
		a.log.Fatalf("Failed to start storefront service: %v", err)
	}
	a.log.Info("Storefront service started, catalog subscription active")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	if a.cfg.Metrics.Port != "" {
		go func() {
			if err := metrics.StartServer(a.cfg.Metrics.Port, a.log, a.metrics.Registry); err != nil {
				a.log.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	cancelRun()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	if a.resolver != nil {
		if err := a.resolver.Close(); err != nil {
			a.log.Errorf("Error closing GeoIP database: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
}
