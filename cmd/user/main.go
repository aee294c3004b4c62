package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tair/user-favorites/pkg/config"
	"github.com/tair/user-favorites/pkg/logger"
)

type rootOptions struct {
	configPath string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "user-service",
		Short:         "User directory with favorites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML config file (defaults to $CONFIG_FILE)")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
	)

	return cmd
}

// loadConfig reads the configuration and initializes the global logger
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Options{
		Service:     cfg.Service.Name,
		Development: cfg.IsDevelopment(),
		Level:       cfg.Log.Level,
	})

	return cfg, nil
}
