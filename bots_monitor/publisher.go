package bot

// Publisher delivers rendered charts to Telegram.
// Every send passes through a rate limiter, a circuit breaker and a retry loop.

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"glucose-chart/internal/features/report"
	"glucose-chart/internal/infra/fs"
	log "glucose-chart/internal/infra/log"
	"glucose-chart/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ChartBuilder produces a chart on demand. *report.Builder satisfies it.
type ChartBuilder interface {
	Build(ctx context.Context, o report.Override) (*report.Result, error)
}

type PublisherOptions struct {
	RatePerSecond float64 // <= 0 disables limiting
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	FileWait      time.Duration // how long to wait for the PNG to land on disk
}

type Publisher struct {
	sender   Sender
	chatID   int64
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	retry    retry.Options
	fileWait time.Duration
}

// NewPublisher creates a publisher for the chat given as a numeric string,
// e.g. "-1003190218710" for a supergroup.
func NewPublisher(sender Sender, chatID string, opts PublisherOptions) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("telegram sender is nil")
	}
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.FileWait <= 0 {
		opts.FileWait = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Publisher{
		sender:  sender,
		chatID:  id,
		limiter: rate.NewLimiter(limit, 1),
		breaker: breaker,
		retry: retry.Options{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  opts.BaseDelay,
			MaxDelay:   opts.MaxDelay,
		},
		fileWait: opts.FileWait,
	}, nil
}

// ChatID is the configured destination chat.
func (p *Publisher) ChatID() int64 { return p.chatID }

// PublishChart sends the PNG at path with an HTML caption to the configured chat.
func (p *Publisher) PublishChart(ctx context.Context, path, caption string) error {
	return p.SendChart(ctx, p.chatID, 0, path, caption)
}

// SendChart sends the PNG at path to chatID, optionally as a reply.
func (p *Publisher) SendChart(ctx context.Context, chatID int64, replyTo int, path, caption string) error {
	if err := fs.WaitForFile(ctx, path, p.fileWait); err != nil {
		return fmt.Errorf("chart not ready: %w", err)
	}
	return p.send(ctx, "sendPhoto", chatID, func() tgbotapi.Chattable {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyToMessageID = replyTo
		return photo
	}, zap.String("path", path))
}

// SendText sends an HTML message to chatID, optionally as a reply.
func (p *Publisher) SendText(ctx context.Context, chatID int64, replyTo int, text string) error {
	return p.send(ctx, "sendMessage", chatID, func() tgbotapi.Chattable {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyToMessageID = replyTo
		return msg
	})
}

// send builds a fresh Chattable per attempt since file uploads are consumed on send.
func (p *Publisher) send(ctx context.Context, method string, chatID int64, build func() tgbotapi.Chattable, fields ...zap.Field) error {
	requestID := log.GenerateRequestID()
	startTime := time.Now()
	chatIDStr := formatChatID(chatID)

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	log.LogRequest(requestID, method, chatIDStr, fields...)

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, retry.Do(ctx, p.retry, func() error {
			_, err := p.sender.Send(build())
			if err != nil {
				log.RequestLogger(requestID).Warn("Telegram send attempt failed", zap.Error(err))
			}
			return err
		})
	})

	duration := time.Since(startTime).Milliseconds()
	log.LogResponse(requestID, err == nil, duration, append(fields, zap.String("method", method))...)
	if err != nil {
		return fmt.Errorf("telegram %s failed: %w", method, err)
	}
	return nil
}

// Deliver builds a chart and publishes it to the configured chat.
func Deliver(ctx context.Context, b ChartBuilder, p *Publisher, o report.Override) (*report.Result, error) {
	res, err := b.Build(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart: %w", err)
	}
	if err := p.PublishChart(ctx, res.Path, report.Caption(res)); err != nil {
		return res, err
	}
	log.LogSuccess("Glucose chart delivered",
		zap.String("chatID", formatChatID(p.chatID)),
		zap.String("granularity", res.Granularity.String()),
		zap.String("path", res.Path))
	return res, nil
}

// parseChatID reads a Telegram chat ID; supergroups carry a -100 prefix.
func parseChatID(chatIDStr string) (int64, error) {
	s := strings.TrimSpace(chatIDStr)
	if s == "" {
		return 0, fmt.Errorf("telegram chat id is empty")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", chatIDStr, err)
	}
	return id, nil
}

func formatChatID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
