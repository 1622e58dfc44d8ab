// internal/alerts/notify.go
// SMS and email delivery for caregiver notifications

package alerts

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers alert notifications over SMS
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailSender delivers alert notifications over email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// TwilioSMSSender sends SMS through the Twilio REST API
type TwilioSMSSender struct {
	client      *twilio.RestClient
	phoneNumber string
}

// NewTwilioSMSSender creates a Twilio-backed SMS sender
func NewTwilioSMSSender(accountSID, authToken, phoneNumber string) SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSSender{
		client:      client,
		phoneNumber: phoneNumber,
	}
}

func (s *TwilioSMSSender) SendSMS(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.phoneNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}

	return nil
}

// SendGridEmailSender sends email through SendGrid
type SendGridEmailSender struct {
	apiKey string
	from   string
}

// NewSendGridEmailSender creates a SendGrid-backed email sender
func NewSendGridEmailSender(apiKey, from string) EmailSender {
	return &SendGridEmailSender{apiKey: apiKey, from: from}
}

func (s *SendGridEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail("CareLink", s.from)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}

	return nil
}

// MockSMSSender records messages instead of sending them
type MockSMSSender struct {
	Sent []string
}

// NewMockSMSSender creates a mock SMS sender
func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

func (s *MockSMSSender) SendSMS(ctx context.Context, to, body string) error {
	s.Sent = append(s.Sent, fmt.Sprintf("%s: %s", to, body))
	return nil
}

// MockEmailSender records emails instead of sending them
type MockEmailSender struct {
	Sent []string
}

// NewMockEmailSender creates a mock email sender
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

func (s *MockEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	s.Sent = append(s.Sent, fmt.Sprintf("%s: %s", to, subject))
	return nil
}
