package commands

// Command to generate one chart and send it to the configured Telegram chat

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	bot "glucose-chart/bots_monitor"
	"glucose-chart/internal/features/report"
	"glucose-chart/internal/infra/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Generate a glucose chart and send it to Telegram once",
	Args:  cobra.NoArgs,
	RunE:  runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := config.ValidateTelegram(cfg); err != nil {
		return err
	}

	builder, err := report.NewBuilder(cfg)
	if err != nil {
		return err
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	pub, err := newPublisher(api)
	if err != nil {
		return err
	}

	res, err := bot.Deliver(ctx, builder, pub, report.Override{})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	return nil
}

func newPublisher(api *tgbotapi.BotAPI) (*bot.Publisher, error) {
	return bot.NewPublisher(api, cfg.Telegram.ChatID, bot.PublisherOptions{
		RatePerSecond: cfg.Telegram.RatePerSecond,
		MaxRetries:    cfg.Telegram.MaxRetries,
	})
}
