package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/config"
	"github.com/cory-johannsen/hexfront/internal/observability"
)

// newRootCmd builds the command tree. Subcommands share the --config flag.
func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "hexfront",
		Short:         "Two-faction hex-grid battle simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file; built-in defaults when empty")

	root.AddCommand(newPlayCmd(&configPath), newSimulateCmd(&configPath))
	return root
}

// loadConfig reads the configuration file at path, or the defaults when path
// is empty.
//
// Postcondition: Returns a valid Config or a non-nil error.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger it names.
func setup(path string) (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger, nil
}
