package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultAPIBase is the Telegram Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 5 * time.Second

// TelegramConfig holds the opaque destination credentials.
type TelegramConfig struct {
	Token   string
	ChatID  string
	APIBase string // defaults to DefaultAPIBase
}

// Enabled reports whether both credentials are set.
func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && c.ChatID != ""
}

// TelegramSink sends messages through the Telegram Bot API as form-encoded
// POSTs with HTML parse mode.
type TelegramSink struct {
	client *http.Client
	base   string
	token  string
	chatID string
	logger *zap.Logger
}

// NewTelegramSink creates a Telegram-backed notification sink.
func NewTelegramSink(cfg TelegramConfig, logger *zap.Logger) *TelegramSink {
	base := cfg.APIBase
	if base == "" {
		base = DefaultAPIBase
	}

	return &TelegramSink{
		client: &http.Client{Timeout: sendTimeout},
		base:   strings.TrimSuffix(base, "/"),
		token:  cfg.Token,
		chatID: cfg.ChatID,
		logger: logger,
	}
}

func (s *TelegramSink) Send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.base, s.token)

	form := url.Values{
		"chat_id":    {s.chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("telegram sendMessage: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// Compile-time check.
var _ Sink = (*TelegramSink)(nil)
