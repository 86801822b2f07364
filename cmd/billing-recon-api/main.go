// billing-recon-api serves the billing reconciliation engine over REST for
// the web console.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/skyvps360/skypanelv2-sub001/internal/api"
	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/config"
	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/logging"
	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/storage"
	"github.com/skyvps360/skypanelv2-sub001/internal/ledger"
	"github.com/skyvps360/skypanelv2-sub001/internal/reconcile"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLogger(cfg.Observability.Logging)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	client := newLedgerClient(cfg, logger)
	service := newReconcileService(cfg, client, store, logger)

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, store, service, logger.With("system", "api"))

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
		close(done)
	}()

	if err := server.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	<-done
}

// newLedgerClient builds the wallet API client. Retries are a caller-side
// concern: the ledger client itself never retries, so when retries are
// configured they live in the injected HTTP client.
func newLedgerClient(cfg *config.Config, logger *slog.Logger) *ledger.Client {
	opts := []ledger.Option{
		ledger.WithLogger(logger.With("system", "ledger")),
	}

	if cfg.Ledger.RetryMax > 0 {
		rc := retryablehttp.NewClient()
		rc.RetryMax = cfg.Ledger.RetryMax
		rc.Logger = nil
		rc.HTTPClient = &http.Client{Timeout: 15 * time.Second}
		opts = append(opts, ledger.WithHTTPClient(rc.StandardClient()))
	}

	return ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.APIToken, opts...)
}

func newReconcileService(cfg *config.Config, client *ledger.Client, store storage.Repository, logger *slog.Logger) *reconcile.Service {
	reconcileLogger := logger.With("system", "reconcile")

	aggregator := reconcile.NewAggregator(client, reconcile.AggregatorConfig{
		PageSize: cfg.Reconcile.PageSize,
		MaxPages: cfg.Reconcile.MaxPages,
	}, reconcileLogger)

	tolerance := reconcile.DefaultTolerance()
	if floor, err := decimal.NewFromString(cfg.Reconcile.ToleranceFloor); err == nil {
		tolerance.Floor = floor
	}
	if ratio, err := decimal.NewFromString(cfg.Reconcile.ToleranceRatio); err == nil {
		tolerance.Ratio = ratio
	}

	return reconcile.NewService(aggregator, client, tolerance, store, reconcileLogger)
}
