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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/qkart/internal/backend"
	"github.com/abelbrown/qkart/internal/catalog"
	"github.com/abelbrown/qkart/internal/logging"
	"github.com/abelbrown/qkart/internal/otel"
)

var (
	serveAddr     string
	serveDB       string
	serveSeed     string
	serveNoSeed   bool
	serveDelay    time.Duration
	serveLogLevel string
	serveEvents   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local catalog service",
	Long: `Serve a QKart-compatible catalog API backed by SQLite.

Examples:
  qkart serve                          # demo catalog in memory on :8082
  qkart serve --db shop.db --seed products.yaml
  qkart serve --delay 800ms            # slow responses, to watch searches overlap`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8082", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", ":memory:", "SQLite database path")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "YAML product file to load (default: built-in demo catalog)")
	serveCmd.Flags().BoolVar(&serveNoSeed, "no-seed", false, "Do not load any products")
	serveCmd.Flags().DurationVar(&serveDelay, "delay", 0, "Artificial latency added to every response")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveEvents, "events", "", "Write JSONL request events to this file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.InitWriter(cmd.ErrOrStderr(), serveLogLevel); err != nil {
		return err
	}

	st, err := backend.Open(serveDB)
	if err != nil {
		return err
	}
	defer st.Close()

	if !serveNoSeed {
		items, err := loadSeed(serveSeed)
		if err != nil {
			return err
		}
		n, err := st.SaveItems(items)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		logging.Info("catalog seeded", "new", n, "total", len(items))
	}

	var events *otel.Logger
	if serveEvents != "" {
		f, err := os.OpenFile(serveEvents, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer f.Close()
		events = otel.NewLogger(f)
	} else {
		events = otel.NewNullLogger()
	}
	defer events.Close()

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           backend.NewServer(st, backend.ServerConfig{Delay: serveDelay, Events: events}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("listening", "addr", serveAddr, "prefix", backend.DefaultPrefix)
		fmt.Fprintf(cmd.OutOrStdout(), "QKart catalog on http://localhost%s%s\n", serveAddr, backend.DefaultPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loadSeed(path string) ([]catalog.Item, error) {
	if path == "" {
		return backend.DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return backend.ParseSeed(data)
}
