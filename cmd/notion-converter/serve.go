package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Conversly/notion-converter/internal/api"
	"github.com/Conversly/notion-converter/internal/api/conversion"
	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.NotionToken == "" {
		utils.Zlog.Warn("NOTION_TOKEN is not set; conversions will fail until it is configured")
	}

	var (
		pool     *conversion.WorkerPool
		notifier conversion.NotificationQueue
	)
	if cfg.WebhookEnabled() {
		pool = conversion.NewWorkerPool(conversion.WorkerPoolConfig{
			NumWorkers:    cfg.WorkerCount,
			QueueCapacity: cfg.QueueCapacity,
			WebhookURL:    cfg.WebhookURL,
			Timeout:       cfg.WebhookTimeout,
			RetryDelay:    time.Second,
		})
		pool.Start()
		notifier = pool
	}

	service := newService(cfg, notifier)
	router := api.NewRouter(cfg, service, version)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewHandler(cfg, router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Zlog.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Bool("webhook", cfg.WebhookEnabled()),
			zap.String("tokenPrefix", service.CredentialPrefix()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	utils.Zlog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Zlog.Error("Server shutdown failed", zap.Error(err))
	}
	if pool != nil {
		pool.Stop(shutdownCtx)
	}
	utils.Zlog.Info("Server stopped")
	return nil
}
