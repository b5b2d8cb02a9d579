package bot

// Telegram command handler: /chart and /help

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"glucose-chart/internal/features/report"
	"glucose-chart/internal/glucose"
	log "glucose-chart/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const helpText = "" +
	"Commands:\n" +
	"• <code>/chart</code> - glucose chart with the configured granularity\n" +
	"• <code>/chart {day|hour|minute}</code> - glucose chart with the given granularity\n" +
	"• <code>/help</code> - this message"

// RunCommandHandler serves commands from updates until ctx ends or updates closes.
// Messages from chats other than allowedChatID are ignored; an empty
// allowedChatID accepts every chat.
func RunCommandHandler(ctx context.Context, updates <-chan tgbotapi.Update, pub *Publisher, builder ChartBuilder, allowedChatID string) {
	if pub == nil || builder == nil {
		log.LogWarn("Publisher or chart builder is nil, command handler not started")
		return
	}

	var allowed int64
	if allowedChatID != "" {
		id, err := parseChatID(allowedChatID)
		if err != nil {
			log.LogError("Command handler not started", zap.Error(err))
			return
		}
		allowed = id
	}

	log.LogInfo("Starting command handler", zap.String("allowedChatID", allowedChatID))

	for {
		select {
		case <-ctx.Done():
			log.LogInfo("Command handler stopped")
			return
		case update, ok := <-updates:
			if !ok {
				log.LogInfo("Update channel closed, command handler stopped")
				return
			}
			handleUpdate(ctx, update, pub, builder, allowed)
		}
	}
}

func handleUpdate(ctx context.Context, update tgbotapi.Update, pub *Publisher, builder ChartBuilder, allowed int64) {
	message := update.Message
	if message == nil || message.Chat == nil || !message.IsCommand() {
		return
	}
	if allowed != 0 && message.Chat.ID != allowed {
		return
	}

	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	log.LogDebug("Received command",
		zap.String("command", command),
		zap.String("args", args),
		zap.String("chatID", formatChatID(message.Chat.ID)),
		zap.String("username", username))

	switch command {
	case "chart":
		handleChartCommand(ctx, pub, builder, message, args)
	case "help", "start":
		if err := pub.SendText(ctx, message.Chat.ID, message.MessageID, helpText); err != nil {
			log.LogError("Failed to send /help message", zap.Error(err))
		}
	}
}

// handleChartCommand /chart [granularity]
func handleChartCommand(ctx context.Context, pub *Publisher, builder ChartBuilder, message *tgbotapi.Message, args string) {
	var o report.Override
	if args != "" {
		g, err := glucose.ParseGranularity(strings.Fields(args)[0])
		if err != nil {
			reply(ctx, pub, message, fmt.Sprintf("Usage: /chart {day|hour|minute}\n\n%s", html.EscapeString(err.Error())))
			return
		}
		o.Granularity = g
	}

	res, err := builder.Build(ctx, o)
	if err != nil {
		log.LogError("Failed to build chart for command", zap.Error(err))
		text := "Failed to build chart"
		if errors.Is(err, glucose.ErrInvalidRange) || errors.Is(err, glucose.ErrInvalidValueRange) {
			text += ": " + html.EscapeString(err.Error())
		}
		reply(ctx, pub, message, text)
		return
	}

	if err := pub.SendChart(ctx, message.Chat.ID, message.MessageID, res.Path, report.Caption(res)); err != nil {
		log.LogError("Failed to send chart", zap.String("path", res.Path), zap.Error(err))
		reply(ctx, pub, message, "Failed to send chart")
		return
	}

	log.LogInfo("Chart sent on command",
		zap.String("chatID", formatChatID(message.Chat.ID)),
		zap.String("granularity", res.Granularity.String()))
}

func reply(ctx context.Context, pub *Publisher, message *tgbotapi.Message, text string) {
	if err := pub.SendText(ctx, message.Chat.ID, message.MessageID, text); err != nil {
		log.LogError("Failed to send reply", zap.Error(err))
	}
}
