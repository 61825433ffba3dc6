package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kmorse/paddlebot/api"
	"github.com/kmorse/paddlebot/internal/config"
	"github.com/kmorse/paddlebot/session"
	bboltstorage "github.com/kmorse/paddlebot/storage/bbolt"
)

var (
	flagAPIURL  string
	flagEnvFile string
	flagTokenDB string
	flagTimeout time.Duration

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "paddlebot",
	Short: "PaddleBot is the command line client for the bot tournament platform",
	Long: `Command line client for the PaddleBot tournament platform: manage your
team and bot submissions, run matches and challenges, and replay finished
games in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagEnvFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("api-url") {
			cfg.APIURL = flagAPIURL
		}
		if cmd.Flags().Changed("token-db") {
			cfg.TokenDBPath = flagTokenDB
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout = flagTimeout
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Platform origin (overrides "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Env file to load configuration from")
	rootCmd.PersistentFlags().StringVar(&flagTokenDB, "token-db", "", "Path to the token database (overrides "+config.EnvTokenDB+")")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Per-request timeout (overrides "+config.EnvTimeout+")")
}

// newClient opens the token store and builds an API client around a
// session manager. The returned closer releases the store; call it once
// the command is done with the client.
func newClient() (*api.Client, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.TokenDBPath), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create token directory: %w", err)
	}
	store, err := bboltstorage.NewStoreFromFile(cfg.TokenDBPath, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	sess := session.New(cfg.APIURL, store,
		session.WithLogger(logger),
		session.WithAnonymousFallback(cfg.AnonFallback),
	)
	return api.NewClient(sess), func() { _ = store.Close() }, nil
}

// requestContext bounds a command's API calls with the configured
// timeout.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return cmd.Context(), func() {}
	}
	return context.WithTimeout(cmd.Context(), cfg.Timeout)
}

func parseID(arg, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", what, arg, err)
	}
	return id, nil
}
