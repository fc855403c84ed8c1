package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the rules for the configured game",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rules, err := cfg.Rules()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rules.Describe())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
