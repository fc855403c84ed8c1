package cmd

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/player"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let the computer play many games against itself",
	Long: `Simulate runs computer maker against computer breaker and reports how
many guesses the solver needed. Games run on a pool of workers; each game
has its own solver state.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int("games", 0, "number of games (default from config, 1000)")
	simulateCmd.Flags().Int("workers", 0, "parallel workers (default from config, 4)")
	_ = viper.BindPFlag("simulate.games", simulateCmd.Flags().Lookup("games"))
	_ = viper.BindPFlag("simulate.workers", simulateCmd.Flags().Lookup("workers"))
	rootCmd.AddCommand(simulateCmd)
}

// simStats aggregates finished games.
type simStats struct {
	mu       sync.Mutex
	solved   int
	failed   int
	total    int
	max      int
	guesses  map[int]int
	firstErr error
}

func (s *simStats) add(res player.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || !res.Solved {
		s.failed++
		if s.firstErr == nil {
			s.firstErr = err
		}
		return
	}
	n := res.Guesses()
	s.solved++
	s.total += n
	s.guesses[n]++
	if n > s.max {
		s.max = n
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	games, workers := cfg.Simulate.Games, cfg.Simulate.Workers
	if games < 1 {
		return errors.New("games must be positive")
	}
	if workers < 1 {
		workers = 1
	}

	bar := progressbar.NewOptions(games,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("simulating"),
		progressbar.OptionShowCount(),
	)
	stats := &simStats{guesses: make(map[int]int)}

	jobs := make(chan uint64)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				rng := game.NewRand(seed)
				maker := player.NewComputerCodeMaker(rules, rng)
				breaker := player.NewComputerCodeBreaker(rules, rng)
				res, err := player.Play(maker, breaker, player.Options{MaxTurns: rules.Colors * rules.Positions})
				if err != nil {
					log.Warn().Err(err).Str("secret", maker.Secret().String()).Msg("game failed")
				}
				stats.add(res, err)
				_ = bar.Add(1)
			}
		}()
	}

	for i := range games {
		seed := uint64(0)
		if cfg.Seed != 0 {
			seed = cfg.Seed + uint64(i)
		}
		jobs <- seed
	}
	close(jobs)
	wg.Wait()
	_ = bar.Finish()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "games:   %d (%d colors, %d positions, duplicates %v)\n", games, rules.Colors, rules.Positions, rules.Duplicates)
	fmt.Fprintf(out, "solved:  %d\n", stats.solved)
	fmt.Fprintf(out, "failed:  %d\n", stats.failed)
	if stats.solved > 0 {
		fmt.Fprintf(out, "mean:    %.3f guesses\n", float64(stats.total)/float64(stats.solved))
		fmt.Fprintf(out, "max:     %d guesses\n", stats.max)
		for n := 1; n <= stats.max; n++ {
			if c := stats.guesses[n]; c > 0 {
				fmt.Fprintf(out, "  %2d: %d\n", n, c)
			}
		}
	}
	if stats.failed > 0 {
		return fmt.Errorf("%d of %d games failed: %w", stats.failed, games, stats.firstErr)
	}
	return nil
}
