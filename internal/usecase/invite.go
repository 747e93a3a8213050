package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/metrics"
	"github.com/ErlanBelekov/trade-tally/internal/notify"
)

type InviteUsecase struct {
	sms   notify.SMSSender
	email notify.EmailSender
	link  string
}

func NewInviteUsecase(sms notify.SMSSender, email notify.EmailSender, link string) *InviteUsecase {
	return &InviteUsecase{sms: sms, email: email, link: link}
}

// InviteInput addresses the invite by phone or, failing that, by e-mail.
type InviteInput struct {
	Phone        string
	Email        string
	FirstName    string
	UserFullName string
}

// Send delivers the invite and returns the provider's message id. Provider
// rejections come back as *notify.ProviderError.
func (u *InviteUsecase) Send(ctx context.Context, input InviteInput) (string, error) {
	phone := strings.TrimSpace(input.Phone)
	email := strings.TrimSpace(input.Email)

	switch {
	case phone != "":
		id, err := u.sms.SendSMS(ctx, phone, u.message(input))
		return u.result("sms", id, err)
	case email != "":
		subject := fmt.Sprintf("%s invited you to Trade Tally", input.UserFullName)
		id, err := u.email.SendEmail(ctx, email, subject, u.message(input))
		return u.result("email", id, err)
	default:
		return "", domain.NewValidationError("phone", "Missing field")
	}
}

func (u *InviteUsecase) message(input InviteInput) string {
	return fmt.Sprintf(
		"Hey %s, your friend %s would like you to join Trade Tally, so you two can record trades together. Check us out at %s",
		input.FirstName, input.UserFullName, u.link,
	)
}

func (u *InviteUsecase) result(channel, id string, err error) (string, error) {
	if err != nil {
		metrics.InvitesSentTotal.WithLabelValues(channel, "failure").Inc()
		return "", fmt.Errorf("send %s invite: %w", channel, err)
	}
	metrics.InvitesSentTotal.WithLabelValues(channel, "success").Inc()
	return id, nil
}
