// Command focusboard is a terminal kanban board with a pomodoro timer.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/focusboard/internal/config"
	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/infrastructure/observability"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "focusboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level, err := cfg.Observability.Level()
	if err != nil {
		return err
	}
	obsCfg := observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		LogLevel:    level,
	}

	// Configuration via OTEL_* env vars (endpoint, headers, resource attributes)
	lp, logger, err := observability.InitLogger(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer shutdown("logger", lp.Shutdown)
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer shutdown("tracer", tp.Shutdown)

	mp, err := observability.InitMeterProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init meter provider: %w", err)
	}
	defer shutdown("meter", mp.Shutdown)

	metrics, err := observability.NewMetrics(mp)
	if err != nil {
		return err
	}

	a := newApp(cfg, domain.SystemClock{}, metrics)
	defer a.Close()

	return newRootCmd(a).ExecuteContext(ctx)
}

// shutdown flushes a telemetry provider with a timeout so an unreachable collector cannot hang exit.
func shutdown(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown provider", "provider", name, "error", err)
	}
}
