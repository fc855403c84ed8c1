package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/player"
	"github.com/robalobadob/mastermind/internal/solver"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game",
	Long: `Play one game of Mastermind in the terminal.

Roles not taken with --maker or --breaker are played by the computer, so
running without either flag lets you watch the computer solve its own code.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Bool("maker", false, "play as code maker")
	playCmd.Flags().Bool("breaker", false, "play as code breaker")
	playCmd.Flags().Bool("auto-feedback", false, "automatically give feedback when user is playing as code maker")
	playCmd.Flags().Bool("rules", false, "show rules and exit")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if show, _ := cmd.Flags().GetBool("rules"); show {
		fmt.Fprint(out, rules.Describe())
		return nil
	}

	humanMaker, _ := cmd.Flags().GetBool("maker")
	humanBreaker, _ := cmd.Flags().GetBool("breaker")
	autoFeedback, _ := cmd.Flags().GetBool("auto-feedback")

	rng := game.NewRand(cfg.Seed)
	prompt := player.NewPrompter(cmd.InOrStdin(), out)

	var maker player.CodeMaker
	if humanMaker {
		fmt.Fprintln(out, "Code maker is played by the user.")
		maker = player.NewHumanCodeMaker(rules, prompt, autoFeedback)
	} else {
		fmt.Fprintln(out, "Code maker is played by computer.")
		maker = player.NewComputerCodeMaker(rules, rng)
	}

	var breaker player.CodeBreaker
	if humanBreaker {
		fmt.Fprintln(out, "Code breaker is played by the user.")
		breaker = player.NewHumanCodeBreaker(rules, prompt)
	} else {
		fmt.Fprintln(out, "Code breaker is played by computer.")
		breaker = player.NewComputerCodeBreaker(rules, rng)
	}

	res, err := player.Play(maker, breaker, player.Options{Out: out})
	if errors.Is(err, solver.ErrNoGuess) {
		return fmt.Errorf("inconsistent feedback after %d guesses: %w", res.Guesses(), err)
	}
	if err != nil {
		return err
	}
	log.Debug().Int("guesses", res.Guesses()).Bool("solved", res.Solved).Msg("game over")
	return nil
}
