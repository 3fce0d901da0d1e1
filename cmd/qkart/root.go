package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/qkart/internal/config"
	"github.com/abelbrown/qkart/internal/logging"
	"github.com/abelbrown/qkart/internal/notify"
	"github.com/abelbrown/qkart/internal/otel"
	"github.com/abelbrown/qkart/internal/ui"
)

var (
	configPath   string
	endpointFlag string
	debounceFlag time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "qkart",
	Short: "QKart - terminal storefront",
	Long: `QKart browses the product catalog of a QKart service from the terminal.

Type to search by product name or category; results update once you pause
typing. Run "qkart serve" for a local demo catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.qkart/config.toml)")
	rootCmd.Flags().StringVar(&endpointFlag, "endpoint", "",
		"Catalog service root, e.g. http://localhost:8082/api/v1")
	rootCmd.Flags().DurationVar(&debounceFlag, "debounce", 0,
		"Quiet period before a search is sent (default from config)")
}

// loadConfig resolves settings: flags > QKART_* env > config file > defaults.
// A config that cannot be read or is invalid is replaced by the defaults and
// the problem is returned alongside.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, loadErr := config.Load(configPath)
	if loadErr != nil {
		cfg = config.DefaultConfig()
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.API.Endpoint = endpointFlag
	}
	if cmd.Flags().Changed("debounce") {
		cfg.Search.DebounceMs = int(debounceFlag.Milliseconds())
	}
	return cfg, loadErr
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, cfgErr := loadConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := logging.Init(dataDir, cfg.Logging.Level); err != nil {
		return err
	}
	defer logging.Close()

	events, ring, closeEvents, err := openEvents(dataDir, cfg.Logging.Events)
	if err != nil {
		return err
	}
	defer closeEvents()

	events.Info(otel.KindStartup, "main", "endpoint "+cfg.API.Endpoint)
	logging.Info("starting", "endpoint", cfg.API.Endpoint, "debounce", cfg.DebounceDelay())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := newClient(cfg)
	app := ui.NewApp(ui.AppConfig{
		FetchAll:     fetchAllCmd(ctx, client),
		Search:       searchCmd(ctx, client),
		Debounce:     cfg.DebounceDelay(),
		ErrorMessage: cfg.Search.ErrorMessage,
		NoticeTTL:    cfg.NoticeTTL(),
		MaxNotices:   cfg.UI.MaxNotices,
		Events:       events,
		Ring:         ring,
	})

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(app, opts...)

	if cfgErr != nil {
		logging.Warn("config ignored, using defaults", "error", cfgErr)
		go notify.Sender(program.Send).Notify("Config ignored: "+cfgErr.Error(), notify.SeverityWarning)
	}

	_, err = program.Run()
	if err != nil {
		events.Error(otel.KindError, "main", err)
	}
	events.Info(otel.KindShutdown, "main", "")
	return err
}

// openEvents starts the JSONL event log at <dataDir>/events.jsonl, or a
// discarding logger when disabled. Either way recent events reach the ring
// for the debug overlay.
func openEvents(dataDir string, enabled bool) (*otel.Logger, *otel.RingBuffer, func(), error) {
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	if !enabled {
		events := otel.NewNullLogger()
		events.SetRingBuffer(ring)
		return events, ring, events.Close, nil
	}

	f, err := os.OpenFile(filepath.Join(dataDir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open event log: %w", err)
	}
	events := otel.NewLogger(f)
	events.SetRingBuffer(ring)
	return events, ring, func() {
		events.Close()
		f.Close()
	}, nil
}
