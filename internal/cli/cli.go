package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"technotes/internal/app"
	"technotes/internal/config"
	"technotes/internal/logging"
)

type rootOptions struct {
	configPath  string
	environment string
	listenAddr  string
}

// Execute runs the command line until SIGINT or SIGTERM.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return NewRootCommand().ExecuteContext(ctx)
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "technotes",
		Short:         "Serve and inspect technical notes",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVarP(&opts.environment, "environment", "e", "", "hosting environment (Development, Production)")
	root.Flags().StringVarP(&opts.listenAddr, "listen", "l", "", "HTTP listen address")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newNotesCommand(opts))

	return root
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.listenAddr, "listen", "l", "", "HTTP listen address")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, logger, err := loadRuntime(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("compose application: %w", err)
	}

	return application.Run(cmd.Context())
}

func loadRuntime(opts *rootOptions, logOutput io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if opts.environment != "" {
		cfg.Environment = opts.environment
	}
	if opts.listenAddr != "" {
		cfg.HTTP.ListenAddr = opts.listenAddr
	}
	if cfg.IsDevelopment() && os.Getenv("TECHNOTES_LOG_PRETTY") == "" {
		cfg.Log.Pretty = true
	}

	logger, err := logging.New(logOutput, cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, logger, nil
}
