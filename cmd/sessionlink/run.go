package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/sessionlink/internal/config"
	"github.com/rickgao/sessionlink/internal/connection"
	"github.com/rickgao/sessionlink/internal/metrics"
	"github.com/rickgao/sessionlink/internal/version"
)

const shutdownTimeout = 10 * time.Second

func runCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect and log session events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, configPath, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/sessionlink.yaml", "path to config file")

	return cmd
}

func run(ctx context.Context, configPath string, logOut io.Writer) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(logOut, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	build := version.Get()
	logger.Info("starting sessionlink",
		"version", build.Version,
		"commit", build.Commit,
		"config", configPath,
	)

	mc, err := cfg.ManagerConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mgr := connection.NewManager(mc,
		connection.NewWebSocketDialer(cfg.DialerConfig(), logger),
		connection.WithLogger(logger),
		connection.WithMetrics(metrics.New(reg)),
	)
	mgr.SetHandlers(eventHandlers(mgr, cfg.Server.Token, logger))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           newHTTPHandler(mgr, reg, cfg.Metrics.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "port", cfg.Metrics.Port, "metrics_path", cfg.Metrics.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("connecting", "url", mc.URL, "auto_reconnect", mc.AutoReconnect)
		mgr.Connect()

		<-gctx.Done()

		logger.Info("shutting down...")
		mgr.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("sessionlink stopped")
	return err
}
