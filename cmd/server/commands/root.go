package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/warp/resource-planner/api"
	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/logging"
	"github.com/warp/resource-planner/store/sqlite"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"

	verbose bool
	port    int
	dbPath  string
	logDir  string

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Resource planner: weekly allocation, capacity and utilization API",
	Long: `Serves the resource planning API: members are allocated hours per project
per week, and the dashboard reports totals, utilization and zones over
1, 3 or 12 month windows.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Port = port
		}
		if flags.Changed("db") {
			cfg.DBPath = dbPath
		}
		if flags.Changed("log-dir") {
			cfg.LogDir = logDir
		}
		if flags.Changed("verbose") {
			cfg.Verbose = verbose
		}
		if err := logging.Init(cfg.Verbose, cfg.LogDir); err != nil {
			return err
		}
		if !cfg.DotEnvLoaded {
			log.Debug().Msg("No .env file found in working directory, relying on environment variables")
		}
		for _, w := range cfg.Warnings {
			log.Warn().Msg(w)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "planner.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for rotating log files")
	rootCmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
}

// newHandler opens the store and builds the API handler.
func newHandler() (*api.Handler, *sqlite.Store, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}

	handler := api.NewHandler(store)
	if cfg.SettingsFile != "" {
		base, err := handler.SettingsFactory.LoadSettingsFile(cfg.SettingsFile)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		handler.SettingsFactory.Base = base
		log.Info().Str("file", cfg.SettingsFile).Msg("company defaults loaded")
	}
	return handler, store, nil
}

func serve(ctx context.Context) error {
	handler, store, err := newHandler()
	if err != nil {
		return err
	}
	defer store.Close()

	janitor := api.NewCacheJanitor(handler)
	janitor.Start()
	defer janitor.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("version", Version).
			Int("port", cfg.Port).
			Str("db", cfg.DBPath).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
