package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LogSender records messages instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender builds a sender that writes to logger.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification",
		zap.String("id", msg.ID),
		zap.String("kind", msg.Kind),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// WebhookSender posts messages as JSON to a mail relay endpoint.
type WebhookSender struct {
	url     string
	timeout time.Duration
}

// NewWebhookSender builds a sender for url.
func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSender{url: url, timeout: timeout}
}

func (s *WebhookSender) Send(ctx context.Context, msg Message) error {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	agent := fiber.Post(s.url)
	agent.JSON(msg)
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("post notification: %w", errs[0])
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("post notification: status %d: %s", status, truncate(string(body), 200))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
