package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chungddong/ChurchFinance/internal/amqp"
	"github.com/chungddong/ChurchFinance/internal/cli"
	appserver "github.com/chungddong/ChurchFinance/internal/http"
	"github.com/chungddong/ChurchFinance/internal/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	st := cli.OpenStore(cfg, logger)
	set := cli.OpenSettings(cfg, logger)

	members, donations, expenses := st.Counts()
	logger.Info("Record store loaded",
		"dir", cfg.DataDir,
		"members", members,
		"donations", donations,
		"expenses", expenses)

	server := appserver.NewServer(":"+cfg.Port, st, set)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Optional change-event publication to the broker.
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPRoutingKey)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		notifier := amqp.NewNotifier(client, st, logger)
		g.Go(func() error {
			if err := notifier.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		logger.Info("Change-event publication enabled", "exchange", cfg.AMQPExchange)
	}

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
