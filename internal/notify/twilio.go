package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const TwilioBaseURL = "https://api.twilio.com"

// TwilioSender sends SMS through the Twilio Messages REST API.
type TwilioSender struct {
	client     *resty.Client
	accountSID string
	from       string
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type twilioError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	MoreInfo string `json:"more_info"`
}

func NewTwilioSender(baseURL, accountSID, authToken, from string) *TwilioSender {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetBasicAuth(accountSID, authToken).
		SetTimeout(10 * time.Second)

	return &TwilioSender{client: cli, accountSID: accountSID, from: from}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": s.from,
			"Body": body,
		}).
		SetResult(&twilioMessage{}).
		SetError(&twilioError{}).
		Post("/2010-04-01/Accounts/" + s.accountSID + "/Messages.json")
	if err != nil {
		return "", fmt.Errorf("twilio request: %w", err)
	}

	if resp.IsError() {
		pErr := &ProviderError{Provider: "twilio", Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		if tErr, ok := resp.Error().(*twilioError); ok && tErr != nil {
			pErr.Code = tErr.Code
			if tErr.Message != "" {
				pErr.Message = tErr.Message
			}
		}
		return "", pErr
	}

	msg, ok := resp.Result().(*twilioMessage)
	if !ok || msg == nil || msg.SID == "" {
		return "", fmt.Errorf("twilio response has no message sid")
	}
	return msg.SID, nil
}
