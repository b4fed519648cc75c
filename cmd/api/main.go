package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dhruvkatara/threadreel-backend/api/routes"
	"github.com/dhruvkatara/threadreel-backend/internal/categories"
	checkoutsvc "github.com/dhruvkatara/threadreel-backend/internal/checkout"
	"github.com/dhruvkatara/threadreel-backend/internal/home"
	"github.com/dhruvkatara/threadreel-backend/internal/inventory"
	"github.com/dhruvkatara/threadreel-backend/internal/orders"
	"github.com/dhruvkatara/threadreel-backend/internal/queries"
	"github.com/dhruvkatara/threadreel-backend/internal/settlement"
	"github.com/dhruvkatara/threadreel-backend/internal/users"
	"github.com/dhruvkatara/threadreel-backend/pkg/config"
	"github.com/dhruvkatara/threadreel-backend/pkg/db"
	"github.com/dhruvkatara/threadreel-backend/pkg/logger"
	"github.com/dhruvkatara/threadreel-backend/pkg/metrics"
	"github.com/dhruvkatara/threadreel-backend/pkg/migrate"
	"github.com/dhruvkatara/threadreel-backend/pkg/outbox"
	"github.com/dhruvkatara/threadreel-backend/pkg/razorpay"
	"github.com/dhruvkatara/threadreel-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gateway, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap razorpay client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	settlementMetrics := metrics.NewSettlementMetrics(registry)

	outboxPublisher := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	userService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(ordersRepo, inventoryService, gateway, cfg.Razorpay.KeyID, dbClient, outboxPublisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	settlementService, err := settlement.NewService(ordersRepo, inventoryRepo, dbClient, outboxPublisher, settlementMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	queriesService, err := queries.NewService(queries.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create queries service", err)
		os.Exit(1)
	}

	homeService, err := home.NewService(home.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create home service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Registry:   registry,
			Users:      userService,
			Inventory:  inventoryService,
			Checkout:   checkoutService,
			Settlement: settlementService,
			Orders:     ordersService,
			Queries:    queriesService,
			Home:       homeService,
			Categories: categoriesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
