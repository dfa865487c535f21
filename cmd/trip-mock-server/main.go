package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Kayz-mann/trip-planner/internal/config"
	"github.com/Kayz-mann/trip-planner/internal/mockserver"
	"github.com/Kayz-mann/trip-planner/internal/mockserver/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := mockserver.NewLogger(os.Stdout, "trip-mock-server")
	if err := NewRootCmd(log).Execute(); err != nil {
		log.Error().Err(err).Msg("trip-mock-server exited with error")
		os.Exit(1)
	}
}

// NewRootCmd builds the server command. Flags override TRIPPLANNER_MOCK_*.
func NewRootCmd(log zerolog.Logger) *cobra.Command {
	var (
		addr, dbPath, level    string
		envelope, templateMode bool
	)

	cmd := &cobra.Command{
		Use:           "trip-mock-server",
		Short:         "Serve a local trips backend for tripctl and the client SDK",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				log.Error().Err(err).Msg("Failed to load configuration")
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.MockAddr = addr
			}
			if flags.Changed("db") {
				cfg.MockDBPath = dbPath
			}
			if flags.Changed("envelope") {
				cfg.MockEnvelope = envelope
			}
			if flags.Changed("template-mode") {
				cfg.MockTemplateMode = templateMode
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = level
			}
			log = log.Level(cfg.Level())

			ln, err := net.Listen("tcp", cfg.MockAddr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, cfg, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", store.MemoryPath, "SQLite file, or :memory:")
	cmd.Flags().BoolVar(&envelope, "envelope", false, `Wrap responses as {"data": ...}`)
	cmd.Flags().BoolVar(&templateMode, "template-mode", false, "Answer POST with an unresolved response template")
	cmd.Flags().StringVar(&level, "log-level", "info", "Log level")
	return cmd
}

// serve runs the mock backend on ln until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, log zerolog.Logger) error {
	st, err := store.Open(cfg.MockDBPath)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store unavailable")
		_ = ln.Close()
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("store close")
		}
	}()

	srv := mockserver.New(st, mockserver.Options{
		Envelope:     cfg.MockEnvelope,
		TemplateMode: cfg.MockTemplateMode,
		Logger:       log,
	})
	server := &http.Server{
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", ln.Addr().String()).
			Str("db", cfg.MockDBPath).
			Bool("envelope", cfg.MockEnvelope).
			Bool("template_mode", cfg.MockTemplateMode).
			Msg("HTTP server starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}
