package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/hexfront/internal/config"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/match"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

func newSimulateCmd(configPath *string) *cobra.Command {
	var games, workers int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play many automatic matches and report the win rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if games > 0 {
				cfg.Simulation.Games = games
			}
			if workers > 0 {
				cfg.Simulation.Workers = workers
			}

			catalog, err := match.LoadCatalog(cfg.Content, dice.NewCryptoSource(), logger)
			if err != nil {
				return err
			}
			defer catalog.Close()

			sum, err := simulate(cmd.Context(), catalog, cfg, logger)
			if err != nil {
				return err
			}
			sum.Write(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().IntVarP(&games, "games", "n", 0, "number of matches; overrides simulation.games")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent matches; overrides simulation.workers")
	return cmd
}

// Summary aggregates the results of a simulation run.
type Summary struct {
	Games  int
	Wins   map[state.Winner]int
	Scores map[card.Faction]int
	Turns  int
	Units  int
}

// simulate plays cfg.Simulation.Games automatic matches from catalog, at most
// cfg.Simulation.Workers at a time.
//
// Precondition: catalog's engine must draw from a source safe for concurrent use.
// Postcondition: Returns the aggregate of every match, or ctx.Err() or the
// first dealing error.
func simulate(ctx context.Context, catalog *match.Catalog, cfg config.Config, logger *zap.Logger) (Summary, error) {
	results := make([]match.Result, cfg.Simulation.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Simulation.Workers)
	for i := range results {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := catalog.NewMatch(cfg, dice.NewCryptoSource(), logger)
			if err != nil {
				return fmt.Errorf("dealing match %d: %w", i, err)
			}
			results[i] = m.PlayOut()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Games:  len(results),
		Wins:   make(map[state.Winner]int),
		Scores: make(map[card.Faction]int),
	}
	for _, r := range results {
		sum.Wins[r.Winner]++
		for f, s := range r.Scores {
			sum.Scores[f] += s
		}
		sum.Turns += r.Turns
		sum.Units += r.Units
	}
	logger.Info("simulation finished",
		zap.Int("games", sum.Games),
		zap.Int("human_wins", sum.Wins[state.WinnerFor(card.FactionHuman)]),
		zap.Int("alien_wins", sum.Wins[state.WinnerFor(card.FactionAlien)]),
		zap.Int("ties", sum.Wins[state.WinnerTie]),
	)
	return sum, nil
}

// Write prints the summary as a short table.
func (s Summary) Write(w io.Writer) {
	if s.Games == 0 {
		fmt.Fprintln(w, "No matches played.")
		return
	}
	pct := func(n int) float64 { return 100 * float64(n) / float64(s.Games) }
	fmt.Fprintf(w, "Matches played: %d\n", s.Games)
	for _, f := range card.Factions {
		wins := s.Wins[state.WinnerFor(f)]
		fmt.Fprintf(w, "  %-6s wins %5d (%5.1f%%)  average score %.2f\n", f, wins, pct(wins), float64(s.Scores[f])/float64(s.Games))
	}
	ties := s.Wins[state.WinnerTie]
	fmt.Fprintf(w, "  ties        %5d (%5.1f%%)\n", ties, pct(ties))
	fmt.Fprintf(w, "Average placement turns %.1f, survivors %.1f\n", float64(s.Turns)/float64(s.Games), float64(s.Units)/float64(s.Games))
}
