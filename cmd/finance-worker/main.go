// finance-worker mirrors the JSON record store into the SQLite
// reporting archive, driven by record-change events with a periodic
// full snapshot as the safety net.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/chungddong/ChurchFinance/internal/amqp"
	"github.com/chungddong/ChurchFinance/internal/archive"
	"github.com/chungddong/ChurchFinance/internal/cli"
	"github.com/chungddong/ChurchFinance/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the archive worker")
		os.Exit(1)
	}

	st := cli.OpenStore(cfg, logger)

	repo, err := archive.New(cfg.ArchiveDBPath)
	if err != nil {
		logger.Error("Failed to open archive", "error", err, "path", cfg.ArchiveDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPRoutingKey)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Archive worker starting",
		"archive", cfg.ArchiveDBPath,
		"queue", cfg.AMQPQueue,
		"interval", cfg.ArchiveInterval.String())

	worker := archive.NewWorker(st, repo, client, cfg.ArchiveInterval, logger)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
