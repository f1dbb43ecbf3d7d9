package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a TOML config file (default $CONFIG_FILE)")
}

var rootCmd = &cobra.Command{
	Use:   "expensetracker",
	Short: "Track expenses and see where the money goes",
	Long: `expensetracker serves the expense tracker web app, runs the spreadsheet
export worker and prints spending reports. Settings come from an optional
TOML file and the environment, the environment winning.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
