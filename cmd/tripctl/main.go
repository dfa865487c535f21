package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Kayz-mann/trip-planner/client"
	"github.com/Kayz-mann/trip-planner/internal/config"
)

var (
	baseURL     string
	debug       bool
	httpTimeout time.Duration
	cacheSize   int
)

// requestTimeout bounds every command that talks to the backend.
const requestTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	cfg := defaults()

	rootCmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "tripctl manages trips on a trip-planner backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.InitLogger(cmd.ErrOrStderr(), debug)
			if debug {
				log.Debug().Msg("debug logging enabled")
			}
			cfg.LogSummary()
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", cfg.BaseURL, "Trips collection URL")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Log HTTP traffic and debug output")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout", cfg.HTTPTimeout, "Per-request HTTP timeout (0 disables)")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "image-cache", cfg.ImageCacheCapacity, "Image cache capacity")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newPatchCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newDaysBetweenCmd())
	rootCmd.AddCommand(newFetchImageCmd())

	return rootCmd
}

// defaults reads TRIPPLANNER_* settings for flag defaults. An invalid
// environment falls back to built-in values so --help still works.
func defaults() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring invalid environment")
		return &config.Config{
			BaseURL:            config.DefaultBaseURL,
			LogLevel:           "info",
			ImageCacheCapacity: 50,
		}
	}
	return cfg
}

func newClient() *client.Client {
	opts := []client.Option{client.WithDebugLogging(debug)}
	if httpTimeout > 0 {
		opts = append(opts, client.WithHTTPTimeout(httpTimeout))
	}
	return client.New(baseURL, opts...)
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
