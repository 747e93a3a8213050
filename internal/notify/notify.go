package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SMSSender delivers a text message and returns the provider's message id.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// EmailSender delivers an e-mail and returns the provider's message id.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// ProviderError is a non-2xx answer from an upstream messaging provider.
// Status is the provider's HTTP status and is passed back to clients.
type ProviderError struct {
	Provider string `json:"-"`
	Status   int    `json:"status"`
	Code     int    `json:"code,omitempty"`
	Message  string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d code %d: %s", e.Provider, e.Status, e.Code, e.Message)
}

// LogSender logs messages instead of sending them. Used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "notify")}
}

func (s *LogSender) SendSMS(ctx context.Context, to, body string) (string, error) {
	id := "SM" + uuid.NewString()
	s.logger.InfoContext(ctx, "invite sms (local dev)", "to", to, "body", body, "sid", id)
	return id, nil
}

func (s *LogSender) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	id := uuid.NewString()
	s.logger.InfoContext(ctx, "invite email (local dev)", "to", to, "subject", subject, "body", body, "id", id)
	return id, nil
}

type Config struct {
	Env              string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	ResendAPIKey     string
	ResendFrom       string
}

// NewSenders returns log senders for ENV=local and the Twilio/Resend
// senders otherwise.
func NewSenders(cfg Config, logger *slog.Logger) (SMSSender, EmailSender) {
	if cfg.Env == "local" {
		s := NewLogSender(logger)
		return s, s
	}
	return NewTwilioSender(TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom),
		NewResendSender(cfg.ResendAPIKey, cfg.ResendFrom)
}
