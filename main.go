package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge/config"
	"concierge/cron"
	"concierge/database"
	"concierge/database/repository/readstate"
	"concierge/database/repository/store"
	"concierge/handlers"
	"concierge/middleware"
	"concierge/routes"
	"concierge/services/concierge"
	"concierge/services/events"
	"concierge/services/payment"
	"concierge/services/permissions"
	"concierge/services/storage"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func openStore(ctx context.Context, logger *zap.Logger) (store.Store, *mongo.Client) {
	switch config.AppConfig.StoreDriver {
	case "mongo":
		if err := database.InitDB(logger); err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		st, err := store.NewMongoStore(ctx, database.MongoClient, config.AppConfig.DatabaseName)
		if err != nil {
			logger.Fatal("main: failed to prepare MongoDB store", zap.Error(err))
		}
		return st, database.MongoClient
	case "memory", "":
		logger.Info("Using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	default:
		logger.Fatal("main: unknown STORE_DRIVER", zap.String("driver", config.AppConfig.StoreDriver))
		return nil, nil
	}
}

func newPublisher(logger *zap.Logger) events.Publisher {
	brokers := config.KafkaBrokerList()
	if len(brokers) == 0 {
		return events.NewLogPublisher(logger)
	}
	pub, err := events.NewKafkaPublisher(brokers, config.AppConfig.KafkaTopic, logger)
	if err != nil {
		logger.Warn("Kafka unavailable, logging domain events instead", zap.Error(err))
		return events.NewLogPublisher(logger)
	}
	return pub
}

func newProcessor(logger *zap.Logger) payment.Processor {
	if config.AppConfig.StripeKey == "" {
		return payment.NewManualProcessor(logger)
	}
	stripe.Key = config.AppConfig.StripeKey
	return payment.NewStripeProcessor(config.AppConfig.PaymentCurrency, logger)
}

// newFileStore returns nil when Cloudinary is not configured, which disables uploads.
func newFileStore(logger *zap.Logger) storage.FileStore {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" {
		logger.Info("Cloudinary not configured, attachment uploads disabled")
		return nil
	}
	files, err := storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	if err != nil {
		logger.Warn("Cloudinary unavailable, attachment uploads disabled", zap.Error(err))
		return nil
	}
	return files
}

func newReadState() readstate.ReadState {
	if client := utils.GetReadStateClient(); client != nil {
		return readstate.NewRedisReadState(client)
	}
	return readstate.NewMemoryReadState()
}

// sweepInProcess runs the overdue sweep on a ticker when no queue is available.
func sweepInProcess(ctx context.Context, svc *concierge.Service, every time.Duration, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := svc.MarkOverdueInvoices(ctx, time.Now().UTC()); err != nil {
					logger.Warn("In-process overdue sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, mongoClient := openStore(ctx, logger)
	if config.AppConfig.SeedDemoData {
		data, err := store.DemoData(time.Now().UTC())
		if err != nil {
			logger.Fatal("main: failed to build demo data", zap.Error(err))
		}
		if err := st.Seed(ctx, data); err != nil {
			logger.Fatal("main: failed to seed demo data", zap.Error(err))
		}
		logger.Info("Demo data seeded")
	}

	utils.InitAuthCache()
	utils.InitReadStateCache()
	utils.StartHealthMonitor(ctx, config.AppConfig.StoreDriver, utils.RedisClients(), mongoClient)

	publisher := newPublisher(logger)
	defer publisher.Close()

	tokenTTL := time.Duration(config.AppConfig.TokenTTLHours) * time.Hour
	svc := concierge.New(st, publisher, newProcessor(logger), newReadState(), logger,
		concierge.WithTokenTTL(tokenTTL),
		concierge.WithCurrency(config.AppConfig.PaymentCurrency),
		concierge.WithFileStore(newFileStore(logger)))

	gate, err := permissions.NewRouteGate()
	if err != nil {
		logger.Fatal("main: failed to build route gate", zap.Error(err))
	}

	var worker *cron.Worker
	if utils.GetAuthCacheClient() != nil {
		worker = cron.NewWorker(svc, logger)
		worker.Start(ctx)
	} else {
		every := time.Duration(config.AppConfig.OverdueSweepMinutes) * time.Minute
		if every <= 0 {
			every = 15 * time.Minute
		}
		logger.Warn("Redis unavailable, sweeping overdue invoices in process")
		sweepInProcess(ctx, svc, every, logger)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(config.TrustedProxyList()); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(svc), svc, gate)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: failed to close MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
