package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/paw-chain/swapper/api"
	"github.com/paw-chain/swapper/app"
	"github.com/paw-chain/swapper/app/health"
	"github.com/paw-chain/swapper/app/telemetry"
)

// StartCmd runs the node until interrupted.
func StartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the node: load state, apply genesis if needed and serve the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nodeCtx, err := getNodeContext(cmd)
			if err != nil {
				return err
			}
			return runNode(cmd.Context(), nodeCtx.Config, nodeCtx.Logger)
		},
	}
}

func runNode(ctx context.Context, cfg *Config, logger log.Logger) error {
	provider, err := telemetry.NewProvider(cfg.TelemetryProviderConfig())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	swapApp, err := openApp(cfg, logger, provider.Meter())
	if err != nil {
		return err
	}
	defer swapApp.Close()

	if !swapApp.IsInitialized() {
		doc, err := app.ReadGenesisFile(genesisPath(cfg.Home))
		if err != nil {
			return err
		}
		if doc.ChainID != cfg.ChainID {
			return fmt.Errorf("genesis chain-id %q does not match configured chain-id %q", doc.ChainID, cfg.ChainID)
		}
		if err := swapApp.InitChain(ctx, doc.AppState); err != nil {
			return fmt.Errorf("apply genesis: %w", err)
		}
		logger.Info("applied genesis", "chain_id", doc.ChainID)
	}

	var servers []*http.Server
	if cfg.Telemetry.MetricsPort > 0 {
		servers = append(servers, startBackgroundServer(logger, "metrics", cfg.Telemetry.MetricsPort, promhttp.Handler()))
	}
	if cfg.Telemetry.HealthPort > 0 {
		checker, err := health.NewChecker(logger, health.DefaultConfig(), swapApp, provider)
		if err != nil {
			return err
		}
		servers = append(servers, startBackgroundServer(logger, "health", cfg.Telemetry.HealthPort, checker.Handler()))
	}
	defer func() {
		for _, srv := range servers {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = srv.Shutdown(shutdownCtx)
			cancel()
		}
	}()

	if !cfg.API.Enable {
		logger.Info("API disabled; waiting for shutdown signal")
		<-ctx.Done()
		return nil
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	server, err := api.NewServer(swapApp, cfg.APIServerConfig(), logger)
	if err != nil {
		return err
	}
	return server.Start(ctx)
}

// openApp opens the application database under home/data.
func openApp(cfg *Config, logger log.Logger, meter metric.Meter) (*app.SwapApp, error) {
	db, err := dbm.NewDB(dbName, dbm.BackendType(cfg.DBBackend), dataDir(cfg.Home))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	swapApp, err := app.NewSwapApp(logger, db, app.Options{
		ChainID:         cfg.ChainID,
		CheckInvariants: cfg.CheckInvariants,
		Meter:           meter,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return swapApp, nil
}

// startBackgroundServer serves handler on port in a goroutine. Errors after startup are logged.
func startBackgroundServer(logger log.Logger, name string, port int, handler http.Handler) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", "name", name, "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "name", name, "error", err)
		}
	}()
	return server
}
