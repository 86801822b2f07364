// billing-recon runs a single reconciliation pass from the command line and
// prints the computed month-to-date spend alongside the server's figure.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/config"
	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/logging"
	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/storage"
	"github.com/skyvps360/skypanelv2-sub001/internal/ledger"
	"github.com/skyvps360/skypanelv2-sub001/internal/reconcile"
)

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		jsonOut    = flag.Bool("json", false, "Print the outcome as JSON")
		nowFlag    = flag.String("now", "", "Override the wall clock (RFC 3339), for deterministic runs")
		noRecord   = flag.Bool("no-record", false, "Skip recording the pass in audit storage")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)

	logCfg := cfg.Observability.Logging
	if *verbose {
		logCfg.Level = "debug"
	}
	logger := logging.NewLogger(logCfg)

	var now time.Time
	if *nowFlag != "" {
		parsed, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			logger.Error("invalid -now value", slog.String("error", err.Error()))
			os.Exit(2)
		}
		now = parsed
	}

	var store storage.Repository
	if !*noRecord {
		s, err := storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Error("failed to initialize storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	client := newLedgerClient(cfg, logger)

	aggregator := reconcile.NewAggregator(client, reconcile.AggregatorConfig{
		PageSize: cfg.Reconcile.PageSize,
		MaxPages: cfg.Reconcile.MaxPages,
	}, logger.With("system", "reconcile"))

	tolerance := reconcile.DefaultTolerance()
	if floor, err := decimal.NewFromString(cfg.Reconcile.ToleranceFloor); err == nil {
		tolerance.Floor = floor
	}
	if ratio, err := decimal.NewFromString(cfg.Reconcile.ToleranceRatio); err == nil {
		tolerance.Ratio = ratio
	}

	service := reconcile.NewService(aggregator, client, tolerance, store, logger.With("system", "reconcile"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	outcome, err := service.ReconcileMonthlySpend(ctx, now)
	if err != nil {
		logger.Error("reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(outcome)
	} else {
		printOutcome(outcome)
	}

	if outcome.ComputeError != "" {
		os.Exit(1)
	}
}

func printOutcome(outcome *reconcile.Outcome) {
	fmt.Printf("Pass %s (%s)\n", outcome.PassID, outcome.FinishedAt.Sub(outcome.StartedAt).Round(time.Millisecond))

	if outcome.Computed != nil {
		fmt.Printf("  Computed spend:  %s\n", outcome.Computed.Total.StringFixed(2))
		if outcome.Computed.Truncated {
			fmt.Println("  Note: scan hit the page cap; the total may be partial")
		}
		if outcome.Computed.Reason != "" {
			fmt.Printf("  Note: %s\n", outcome.Computed.Reason)
		}
	} else {
		fmt.Printf("  Computed spend:  unavailable (%s)\n", outcome.ComputeError)
	}

	if outcome.ServerTotal != nil {
		fmt.Printf("  Server total:    %s\n", outcome.ServerTotal.StringFixed(2))
	} else {
		fmt.Println("  Server total:    unavailable")
	}

	if outcome.DiscrepancyFlagged {
		fmt.Println("  DISCREPANCY: computed and server totals disagree beyond tolerance")
	}
}

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
