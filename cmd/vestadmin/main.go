package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"vestadmin/internal/amqp"
	"vestadmin/internal/auth"
	"vestadmin/internal/cache"
	"vestadmin/internal/cli"
	apphttp "vestadmin/internal/http"
	"vestadmin/internal/kv"
	applog "vestadmin/internal/log"
	"vestadmin/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(applog.ComponentApp, "", ""))
	logger := cli.SetupLogger(applog.ComponentApp, cfg.LogLevel, cfg.LogFormat)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	store := cli.InitStore(startupCtx, logger, cfg)

	admins := auth.NewAdminStore(store.Store)
	if _, err := admins.EnsureAdmin(startupCtx); err != nil {
		logger.Error("Failed to provision admin account", applog.FieldError, err)
		os.Exit(1)
	}

	chainClient := cli.DialChain(startupCtx, logger, cfg)
	if id, err := chainClient.ChainID(startupCtx); err != nil {
		logger.Warn("Could not read chain id at startup", applog.FieldError, err)
	} else if !cfg.Network.IsCorrectNetwork(id) {
		logger.Warn("RPC endpoint serves an unexpected network",
			applog.FieldChainID, id,
			"expected_chain_id", cfg.Network.ChainID)
	}

	book, err := services.NewScheduleBook(cfg.Contracts)
	if err != nil {
		logger.Error("Failed to build vesting schedules", applog.FieldError, err)
		os.Exit(1)
	}

	dashboardCache := cache.NewLRUCache[services.ChainSnapshot](1, cfg.DashboardCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(dashboardCache)
	cacheManager.StartCleanup(time.Minute)

	var publisher services.ReleasePublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		publisher = amqpClient
	} else {
		logger.Info("AMQP disabled, release submissions will not be watched")
	}

	var releaser services.Releaser
	if chainClient.CanRelease() {
		releaser = chainClient
		logger.Info("Release signing enabled", "signer", chainClient.SignerAddress())
	} else {
		logger.Warn("RELEASE_PRIVATE_KEY not set, release endpoint disabled")
	}

	dashboard := services.NewDashboardService(chainClient, book, cfg.Network, dashboardCache, cfg.ChainTimeout)
	releases := services.NewReleaseService(chainClient, releaser, book, cfg.Network, dashboard, publisher, cfg.ChainTimeout)

	srv := apphttp.NewServer(cfg, apphttp.Deps{
		Admins:    admins,
		Sessions:  auth.NewJWTIssuer(cfg.SessionSecret, cfg.SessionTTL),
		Book:      book,
		Dashboard: dashboard,
		Releases:  releases,
		Checks: map[string]func(context.Context) error{
			"store": func(ctx context.Context) error {
				_, err := store.Store.Get(ctx, auth.AdminKey)
				if errors.Is(err, kv.ErrNotFound) {
					return nil
				}
				return err
			},
			"chain": func(ctx context.Context) error {
				_, err := chainClient.ChainID(ctx)
				return err
			},
		},
		Logger: logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cacheManager.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", applog.FieldError, err)
			}
		}
		chainClient.Close()
		if store.Cleanup != nil {
			if err := store.Cleanup(); err != nil {
				logger.Error("Store cleanup error", applog.FieldError, err)
			}
		}
	})

	logger.Info("Starting vestadmin server",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"network", cfg.Network.Name,
		applog.FieldChainID, cfg.Network.ChainID,
		applog.FieldBackend, cfg.KVBackend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
