package main

import (
	"context"
	"errors"
	"os"
	"time"

	"vestadmin/internal/amqp"
	"vestadmin/internal/cli"
	applog "vestadmin/internal/log"
	"vestadmin/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(applog.ComponentWorker, "", ""))
	logger := cli.SetupLogger(applog.ComponentWorker, cfg.LogLevel, cfg.LogFormat)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the release watcher")
		os.Exit(1)
	}

	logger.Info("Starting release-watcher",
		"network", cfg.Network.Name,
		applog.FieldChainID, cfg.Network.ChainID)

	chainClient := cli.DialChain(context.Background(), logger, cfg)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	receipts := worker.NewReceiptWorker(chainClient, cfg.Network.ChainID, cfg.ReceiptPollInterval, cfg.ReceiptTimeout)

	ctx, done := cli.GracefulShutdown(logger, 15*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", applog.FieldError, err)
		}
		chainClient.Close()
	})

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeReleaseSubmitted(ctx, receipts.HandleReleaseSubmitted)
	}()

	select {
	case <-ctx.Done():
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Release watcher stopped")
}
