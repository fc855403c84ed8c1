package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/mastermind/internal/db"
	"github.com/robalobadob/mastermind/internal/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP game server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default from config, 5175)")
	serveCmd.Flags().String("db", "", "SQLite database path")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("db.path", serveCmd.Flags().Lookup("db"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer database.Close()
	if err := db.Migrate(cmd.Context(), database); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	srv, err := httpserver.New(cfg, database)
	if err != nil {
		return err
	}
	log.Info().
		Int("port", cfg.Server.Port).
		Int("colors", cfg.Colors).
		Int("positions", cfg.Positions).
		Bool("duplicates", cfg.Duplicates).
		Msg("starting mastermind server")
	return srv.Start()
}
