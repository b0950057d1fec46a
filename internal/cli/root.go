// Package cli wires the evaluation server's command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GTD-web/ems-backend-sub025/internal/platform/config"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/logging"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type options struct {
	configPath string
	logLevel   string
}

// NewRootCmd creates the top-level command and registers every subcommand.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "ems-server",
		Short:         "Performance evaluation cycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("APP_CONFIG_FILE"), "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newStatusCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load resolves configuration and installs the process logger.
func (o *options) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWithFile(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if level := strings.TrimSpace(o.logLevel); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.Environment)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func (o *options) connect(ctx context.Context, cfg config.Config) (*db.DB, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	return database, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}
