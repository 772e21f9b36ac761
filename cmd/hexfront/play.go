package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/frontend/console"
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/match"
)

func newPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat match in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			src := dice.NewCryptoSource()
			catalog, err := match.LoadCatalog(cfg.Content, src, logger)
			if err != nil {
				return err
			}
			defer catalog.Close()

			m, err := catalog.NewMatch(cfg, dice.NewLoggedSource(src, logger), logger)
			if err != nil {
				return fmt.Errorf("dealing match: %w", err)
			}
			logger.Info("match started", zap.String("match", m.State().ID.String()))
			return console.New(m, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Run(cmd.Context())
		},
	}
}
