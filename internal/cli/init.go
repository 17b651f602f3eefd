// Package cli provides common CLI initialization utilities shared by
// cmd/vestadmin, cmd/release-watcher and cmd/admin-init.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vestadmin/internal/backend"
	"vestadmin/internal/chain"
	"vestadmin/internal/config"
	applog "vestadmin/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger and installs it as the slog
// default. Before configuration is loaded pass empty level and format.
func SetupLogger(component, level, format string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: component,
		Format:    format,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the configured key-value backend.
// Exits the process on failure.
func InitStore(ctx context.Context, logger *applog.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid storage configuration", applog.FieldError, err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize key-value store",
			applog.FieldError, err,
			applog.FieldBackend, backendCfg.Type.String())
		os.Exit(1)
	}
	return result
}

// DialChain connects to the configured RPC endpoint.
// Exits the process on failure.
func DialChain(ctx context.Context, logger *applog.Logger, cfg *config.Config) *chain.Client {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.ChainTimeout)
	defer cancel()

	client, err := chain.Dial(dialCtx, cfg.Network.RPCURL, chain.Options{
		ManagerAddress: cfg.ManagerAddress,
		TokenAddress:   cfg.TokenAddress,
		PrivateKey:     cfg.ReleaseKey,
	})
	if err != nil {
		logger.Error("Failed to connect to chain",
			applog.FieldError, err,
			"rpc_url", cfg.Network.RPCURL)
		os.Exit(1)
	}
	return client
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. Once
// cancelled, cleanup runs with a context bounded by timeout and done is
// closed when it returns.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup has run.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
