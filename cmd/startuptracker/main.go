package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/startuptracker/startuptracker/internal/config"
	"github.com/startuptracker/startuptracker/internal/ga4"
	"github.com/startuptracker/startuptracker/internal/httpx"
	"github.com/startuptracker/startuptracker/internal/store"
)

var (
	flagPort string
	flagDB   string
)

var rootCmd = &cobra.Command{
	Use:   "startuptracker",
	Short: "Startup metrics dashboard: LTV, CAC, MRR and conversion funnels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "listen port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "revenue history database path (overrides DB_PATH)")
}

func serve() error {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("revenue history unavailable, serving demo trend", slog.String("err", err.Error()))
		st = nil
	} else {
		defer st.Close()
		if err := st.SeedDemo(context.Background()); err != nil {
			logger.Warn("trend seed failed", slog.String("err", err.Error()))
		}
	}

	provider := ga4.Select(cfg, logger)
	r := httpx.NewRouter(logger, provider, st, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
