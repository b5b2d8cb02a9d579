package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func tgErr(code, retryAfter int) error {
	return &tgbotapi.Error{
		Code:               code,
		Message:            fmt.Sprintf("error %d", code),
		ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: retryAfter},
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("plain"), false},
		{tgErr(400, 0), false},
		{tgErr(403, 0), false},
		{tgErr(429, 1), true},
		{tgErr(502, 0), true},
		{fmt.Errorf("wrapped: %w", tgErr(500, 0)), true},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("IsRetryable(%v) = %v, expected %v", tc.err, got, tc.want)
		}
	}
}

func TestRetryAfter(t *testing.T) {
	if got := RetryAfter(tgErr(429, 3)); got != 3*time.Second {
		t.Errorf("expected 3s, got %s", got)
	}
	if got := RetryAfter(tgErr(500, 3)); got != 0 {
		t.Errorf("expected 0 for non-429, got %s", got)
	}
}

func TestFullJitterSleep(t *testing.T) {
	for attempt := 0; attempt < 6; attempt++ {
		d := FullJitterSleep(attempt, 10*time.Millisecond, 50*time.Millisecond)
		if d < 0 || d > 50*time.Millisecond {
			t.Errorf("attempt %d: sleep %s outside [0, 50ms]", attempt, d)
		}
	}
	if d := FullJitterSleep(2, 0, time.Second); d != 0 {
		t.Errorf("expected 0 with no base delay, got %s", d)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return tgErr(502, 0)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 5, BaseDelay: time.Millisecond}, func() error {
		calls++
		return tgErr(400, 0)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}, func() error {
		calls++
		return tgErr(429, 1)
	})
	var te *tgbotapi.Error
	if !errors.As(err, &te) || te.Code != 429 {
		t.Fatalf("expected last 429 error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, Options{MaxRetries: 3}, func() error {
		t.Fatal("fn should not run after cancel")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
