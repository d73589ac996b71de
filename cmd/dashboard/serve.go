package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderdesk/request-dashboard/internal/server"
	"github.com/orderdesk/request-dashboard/internal/service"
)

var cleanupInterval time.Duration

// serveCmd runs the HTTP dashboard and JSON API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and JSON API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&cleanupInterval, "cleanup-interval", 5*time.Minute, "How often expired view sessions are removed")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cleanupInterval <= 0 {
		return fmt.Errorf("--cleanup-interval must be positive, got %s", cleanupInterval)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reaper := service.NewSessionReaper(a.uc.Session, cleanupInterval, logger.Named("reaper"))
	reaper.Start(ctx)
	defer reaper.Stop()

	srv := server.NewDashboardServer(a.uc.Session, a.uc.Table, a.uc.Compose, a.cfg.HTTP.Addr, logger.Named("server"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	return nil
}
