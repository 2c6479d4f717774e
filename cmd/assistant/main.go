package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/salesmate/gateway"
	"github.com/example/salesmate/pkg/audit"
	"github.com/example/salesmate/pkg/auth"
	"github.com/example/salesmate/pkg/cache"
	"github.com/example/salesmate/pkg/catalog"
	"github.com/example/salesmate/pkg/config"
	"github.com/example/salesmate/pkg/discovery"
	"github.com/example/salesmate/pkg/ledger"
	"github.com/example/salesmate/pkg/notify"
	"github.com/example/salesmate/pkg/purchase"
	"github.com/example/salesmate/pkg/storage"
	"github.com/example/salesmate/pkg/tool"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting assistant service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// MySQL holds the order ledger and user accounts.
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	}

	// MongoDB holds the product catalog and the audit trail.
	mongo, err := storage.NewMongo(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongo.Close(ctx)
	}()

	redisCache := cache.New(&cfg.Redis)
	defer redisCache.Close()

	ctx := context.Background()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}
	if err := mongo.Ping(ctx); err != nil {
		logger.Warn("MongoDB ping failed", zap.Error(err))
	}

	// Catalog lookups go through a redis read-through cache.
	catalogStore := catalog.NewCachedStore(
		catalog.NewMongoStore(mongo.InventoryCollection()),
		redisCache, 5*time.Minute, logger)

	orderLedger, err := ledger.NewGormLedger(db, logger)
	if err != nil {
		logger.Fatal("Failed to set up order ledger", zap.Error(err))
	}

	mailer, err := notify.NewMailer(&cfg.SMTP, logger)
	if err != nil {
		logger.Fatal("Failed to set up mailer", zap.Error(err))
	}
	dispatcher, err := notify.NewDispatcher(mailer, 30*time.Second, logger)
	if err != nil {
		logger.Fatal("Failed to start notification dispatcher", zap.Error(err))
	}
	defer dispatcher.Shutdown()

	trail := audit.NewTrail(mongo.AuditCollection())

	orchestrator := purchase.New(catalogStore, orderLedger, dispatcher, trail, logger)

	userStore, err := auth.NewGormStore(db)
	if err != nil {
		logger.Fatal("Failed to set up user store", zap.Error(err))
	}
	authSvc := auth.NewService(userStore, redisCache, logger)

	registry, err := tool.NewRegistry(
		tool.NewSearchInventory(catalogStore, logger),
		tool.NewBuyProduct(orchestrator, logger),
	)
	if err != nil {
		logger.Fatal("Failed to build tool registry", zap.Error(err))
	}

	// Register in etcd so chat transports can discover the assistant.
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		sd = nil
	}
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if sd != nil {
		if err := sd.Register(ctx, instance); err != nil {
			logger.Warn("Failed to register service", zap.Error(err))
		} else {
			logger.Info("Service registered in etcd",
				zap.String("name", cfg.Server.Name),
				zap.String("address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)))
		}
		defer sd.Close()
	}

	gw := gateway.New(cfg, logger, catalogStore, orchestrator, authSvc, trail, registry)

	// Start gateway in goroutine
	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-gwErr:
		logger.Fatal("Gateway error", zap.Error(err))
	}

	if sd != nil {
		if err := sd.Deregister(ctx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
	}

	logger.Info("Service stopped")
}
