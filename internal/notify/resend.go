package notify

import (
	"context"
	"net/http"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends e-mail via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		// resend-go does not expose the upstream status code.
		return "", &ProviderError{Provider: "resend", Status: http.StatusBadGateway, Message: err.Error()}
	}
	return sent.Id, nil
}
