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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"diet-dashboard/config"
	"diet-dashboard/export"
	"diet-dashboard/services"
	"diet-dashboard/snapshot"
	"diet-dashboard/storage"
	"diet-dashboard/utils"
	"diet-dashboard/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Healthy Diet Cost Dashboard starting ===")
	logger.Info("Config — mode: %s | driver: %s | addr: %s", cfg.Mode, cfg.DataDriver, cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	source, err := storage.NewSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", services.ErrDataUnavailable, err)
	}
	defer source.Close()

	cleaner := services.NewCleaner(logger, cfg.RejectMalformedRows())
	loader := services.NewLoader(source, cleaner, logger)

	switch cfg.Mode {
	case config.ModeServe:
		// A failed load is kept and answered with 503 on every dashboard route.
		if _, err := loader.Load(context.Background()); err != nil {
			logger.Error("Dashboard will report data unavailable: %v", err)
		}
		return serve(ctx, cfg, logger, loader, nil)

	case config.ModeReport:
		ds, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		vm := services.Render(ds, services.DefaultSelection(ds))
		services.NewReportPrinter(os.Stdout).Print(vm)
		return nil

	case config.ModeExport:
		ds, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		vm := services.Render(ds, services.DefaultSelection(ds))
		paths, err := export.New(cfg.ExportDir, cfg.ExportConcurrency, logger).Export(vm)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("  → %s\n", p)
		}
		return nil

	case config.ModeSnapshot:
		if _, err := loader.Load(ctx); err != nil {
			return err
		}
		capturer := snapshot.New(cfg, logger)
		return serve(ctx, cfg, logger, loader, func(ctx context.Context) error {
			return capturer.CaptureToFile(ctx, cfg.DashboardURL(), cfg.SnapshotPath)
		})

	default:
		return fmt.Errorf("unknown DASHBOARD_MODE %q", cfg.Mode)
	}
}

// serve runs the dashboard until ctx is cancelled. With a task, the server
// shuts down as soon as the task returns.
func serve(ctx context.Context, cfg *config.Config, logger *utils.Logger, loader web.DatasetLoader, task func(context.Context) error) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := web.NewHandler(loader, logger, web.NewMetrics(reg))
	srv := web.NewServer(cfg.HTTPAddr, web.NewRouter(handler, reg))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Dashboard listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	taskDone := make(chan struct{})
	if task != nil {
		g.Go(func() error {
			defer close(taskDone)
			return task(gctx)
		})
	}

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-taskDone:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down dashboard server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
