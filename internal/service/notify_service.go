package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parkshare/internal/config"
	"parkshare/internal/logger"
)

// ErrChannelDisabled is returned when a channel has no credentials.
var ErrChannelDisabled = errors.New("notification channel not configured")

// NotifyService delivers email through SendGrid and SMS through Twilio.
type NotifyService struct {
	sendgridAPIKey string
	fromEmail      string
	fromName       string

	twilio     *twilio.RestClient
	fromNumber string
}

func NewNotifyService(cfg *config.Config) *NotifyService {
	s := &NotifyService{
		sendgridAPIKey: cfg.SendGridAPIKey,
		fromEmail:      cfg.SendGridFromEmail,
		fromName:       cfg.SendGridFromName,
		fromNumber:     cfg.TwilioFromNumber,
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		s.twilio = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username:   cfg.TwilioAccountSID,
			Password:   cfg.TwilioAuthToken,
			AccountSid: cfg.TwilioAccountSID,
		})
	}
	return s
}

func (s *NotifyService) SendEmail(toEmail, toName, subject, plainText, html string) error {
	if s.sendgridAPIKey == "" || s.fromEmail == "" {
		return fmt.Errorf("email: %w", ErrChannelDisabled)
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := sendgrid.NewSendClient(s.sendgridAPIKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s failed: %w", toEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	logger.Info("email sent", "to", toEmail, "subject", subject, "status", response.StatusCode)
	return nil
}

func (s *NotifyService) SendSMS(toNumber, body string) error {
	if s.twilio == nil || s.fromNumber == "" {
		return fmt.Errorf("sms: %w", ErrChannelDisabled)
	}
	if !strings.HasPrefix(toNumber, "+") {
		logger.Warn("destination number is not E.164, sms may fail", "to", toNumber)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	resp, err := s.twilio.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s failed: %w", toNumber, err)
	}
	if resp != nil && resp.Sid != nil {
		logger.Info("sms sent", "to", toNumber, "sid", *resp.Sid)
	}
	return nil
}
