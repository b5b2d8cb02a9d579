package commands

// Root command for Cobra CLI
// Loads configuration and the logger once for every subcommand
// Registers subcommands (render, send, bot)

import (
	"fmt"

	"glucose-chart/internal/infra/config"
	logging "glucose-chart/internal/infra/log"

	"github.com/spf13/cobra"
)

// cfg is set by the root PersistentPreRunE before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "glucose-chart",
	Short: "Glucose Chart - synthetic blood glucose series and charts",
	Long: `Glucose Chart generates synthetic blood glucose readings at day, hour or minute
granularity, renders them as a line chart and can deliver the chart to Telegram.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { logging.Sync() },
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(botCmd)
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Init(c.App.LogDir); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	cfg = c
	return nil
}
