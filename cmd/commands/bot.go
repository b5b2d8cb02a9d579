package commands

// Command to run the Telegram bot
// Serves /chart and /help and delivers charts on telegram.send_cron
// Implements graceful shutdown for proper termination

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	bot "glucose-chart/bots_monitor"
	"glucose-chart/internal/features/report"
	"glucose-chart/internal/infra/config"
	logging "glucose-chart/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot with scheduled chart delivery",
	Long: `Run the Telegram bot. It answers /chart [day|hour|minute] and /help in the configured chat
and sends a fresh glucose chart on the telegram.send_cron schedule.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	if err := config.ValidateTelegram(cfg); err != nil {
		logging.LogError("Invalid Telegram configuration", zap.Error(err))
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	builder, err := report.NewBuilder(cfg)
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logging.LogError("Failed to create Telegram bot", zap.Error(err))
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	logging.LogInfo("Telegram bot authorized", zap.String("username", api.Self.UserName))

	pub, err := newPublisher(api)
	if err != nil {
		return err
	}

	scheduler, err := bot.NewScheduler(cfg.Telegram.SendCron, time.UTC, func(ctx context.Context) {
		if _, err := bot.Deliver(ctx, builder, pub, report.Override{}); err != nil {
			logging.LogError("Scheduled chart delivery failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		bot.RunCommandHandler(ctx, updates, pub, builder, cfg.Telegram.ChatID)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	logging.LogSuccess("Bot is running", zap.String("status", "active"))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, gracefully stopping...")
	api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.LogSuccess("Bot stopped gracefully")
	case <-time.After(10 * time.Second):
		logging.LogWarn("Timeout waiting for bot to stop, forcing shutdown")
	}

	return nil
}
