// Command flagrant-server runs the Admin and Evaluation HTTP APIs, grounded
// on the teacher's cmd/tangent main: config load, graceful shutdown on
// SIGINT/SIGTERM, and a separate migrate verb for applying the schema.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mbuczko/flagrant/internal/common/logtrace"
	"github.com/mbuczko/flagrant/internal/flagapi"
	"github.com/mbuczko/flagrant/internal/flagconfig"
	"github.com/mbuczko/flagrant/internal/flagmodel"
	"github.com/mbuczko/flagrant/internal/flagserver"
	"github.com/mbuczko/flagrant/internal/flagstore/postgresql"
)

const defaultConfigFile = "/etc/flagrant/flagrant.conf"

func init() {
	logtrace.InitLogger()
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("flagrant-server failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "flagrant-server",
		Short: "flagrant Admin and Evaluation HTTP server",
	}
	root.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile, "path to the config file")

	root.AddCommand(serveCmd(&configFile))
	root.AddCommand(migrateCmd(&configFile))
	return root
}

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configFile)
		},
	}
}

func migrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flagconfig.LoadConfig(*configFile); err != nil {
				return fmt.Errorf("loading config file: %w", err)
			}
			ctx := cmd.Context()
			pool, err := postgresql.Open(ctx, flagconfig.Config().DB.ToPoolConfig())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer pool.Close()
			return pool.Migrate(ctx)
		},
	}
}

func serve(ctx context.Context, configFile string) error {
	slog := log.With().Str("state", "init").Logger()

	slog.Info().Str("config_file", configFile).Msg("loading config file")
	if err := flagconfig.LoadConfig(configFile); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	cfg := flagconfig.Config()

	pool, err := postgresql.Open(ctx, cfg.DB.ToPoolConfig())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer pool.Close()

	if err := pool.Migrate(ctx); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	model := flagmodel.New(pool)
	api := flagapi.New(model)

	server := flagserver.CreateNewServer(api, pool)
	server.MountHandlers()

	addr := cfg.Server.HostName + ":" + cfg.Server.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.GetRequestTimeout(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info().Str("addr", addr).Msg("server started")
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop server gracefully")
			return httpServer.Close()
		}
	}

	slog.Info().Msg("server stopped")
	return nil
}
