package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/asicfleet/simulator/internal/clock"
	appconfig "github.com/asicfleet/simulator/internal/config"
	"github.com/asicfleet/simulator/internal/fleet"
	"github.com/asicfleet/simulator/internal/history"
	"github.com/asicfleet/simulator/internal/hostmetrics"
	"github.com/asicfleet/simulator/internal/httpapi"
	"github.com/asicfleet/simulator/internal/preset"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fleet simulator HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("serve: load config: %w", err)
	}

	catalog, err := preset.Load()
	if err != nil {
		return fmt.Errorf("serve: load preset catalog: %w", err)
	}

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("serve: open history store: %w", err)
		}
		defer hist.Close()
	}

	opts := []fleet.Option{fleet.WithLogger(log.With("component", "fleet"))}
	if hist != nil {
		opts = append(opts, fleet.WithRecorder(hist))
	}
	if cfg.Fleet.MaxMiners > 0 {
		opts = append(opts, fleet.WithCapacity(cfg.Fleet.MaxMiners))
	}

	runtime := fleet.New(catalog, clock.Real{}, opts...)
	host := hostmetrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cadence := time.Duration(cfg.Intervals.TickSeconds * float64(time.Second))
	go runtime.Run(ctx, cadence)

	server := httpapi.New(runtime, host, hist, log)
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: server.Handler(),
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
