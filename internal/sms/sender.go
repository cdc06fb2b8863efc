package sms

import (
	"context"
	"fmt"

	"loan_portal/internal/logger"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a verification code to a phone.
type Sender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogSender only logs the code. It is used when no SMS provider is
// configured.
type LogSender struct {
	log         *logger.Logger
	revealCodes bool
}

func NewLogSender(log *logger.Logger, revealCodes bool) *LogSender {
	return &LogSender{log: log.With("service", "LogSender"), revealCodes: revealCodes}
}

func (s *LogSender) SendCode(ctx context.Context, phone, code string) error {
	if s.revealCodes {
		s.log.Info("verification code issued", "phone", phone, "code", code)
		return nil
	}
	s.log.Info("verification code issued", "phone", phone)
	return nil
}

// messageCreator is the part of the Twilio REST client we call.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender sends codes as text messages through Twilio.
type TwilioSender struct {
	log           *logger.Logger
	api           messageCreator
	from          string
	countryPrefix string
}

type TwilioConfig struct {
	AccountSID    string
	AuthToken     string
	FromNumber    string
	CountryPrefix string
}

func NewTwilioSender(log *logger.Logger, cfg TwilioConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, fmt.Errorf("missing Twilio settings: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioSender(log, client.Api, cfg), nil
}

func newTwilioSender(log *logger.Logger, api messageCreator, cfg TwilioConfig) *TwilioSender {
	return &TwilioSender{
		log:           log.With("service", "TwilioSender"),
		api:           api,
		from:          cfg.FromNumber,
		countryPrefix: cfg.CountryPrefix,
	}
}

func (s *TwilioSender) SendCode(ctx context.Context, phone, code string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(s.countryPrefix + phone)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf("您的验证码是 %s，请勿泄露给他人。", code))

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		s.log.Warn("failed to send code via Twilio", "phone", phone, "error", err)
		return fmt.Errorf("failed to send sms: %w", err)
	}
	var sid string
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	s.log.Info("sent code via Twilio", "phone", phone, "sid", sid)
	return nil
}
