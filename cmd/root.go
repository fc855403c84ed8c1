package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/mastermind/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "mastermind",
	Short:         "Play the Mastermind board game",
	Long:          "Mastermind pits a code maker against a code breaker. Either role can be played by you or by the computer.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .mastermind.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int("colors", 0, "number of colors")
	rootCmd.PersistentFlags().Int("positions", 0, "number of positions in code")
	rootCmd.PersistentFlags().Bool("no-duplicates", false, "disallow duplicate colors")
	rootCmd.PersistentFlags().Uint64("seed", 0, "random seed (0 picks one)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges flags, environment and file, then sets up logging.
// Only flags the user actually passed override the other sources.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("colors") {
		v, _ := flags.GetInt("colors")
		viper.Set("colors", v)
	}
	if flags.Changed("positions") {
		v, _ := flags.GetInt("positions")
		viper.Set("positions", v)
	}
	if flags.Changed("seed") {
		v, _ := flags.GetUint64("seed")
		viper.Set("seed", v)
	}
	if flags.Changed("no-duplicates") {
		v, _ := flags.GetBool("no-duplicates")
		viper.Set("duplicates", !v)
	}

	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	verbose, _ := flags.GetBool("verbose")
	setupLogging(cfg.LogLevel, verbose)
	return cfg, nil
}

// setupLogging routes zerolog to stderr so stdout carries only game output.
func setupLogging(level string, verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
