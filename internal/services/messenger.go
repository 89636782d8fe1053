package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Messenger sends out-of-band messages. Callers treat every send as best
// effort.
type Messenger interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, plainText, html string) error
	SendSMS(ctx context.Context, toPhone, body string) error
}

type messenger struct {
	cfg            *config.Config
	sendgridClient *sendgrid.Client
	twilioClient   *twilio.RestClient
}

func NewMessenger(cfg *config.Config) Messenger {
	m := &messenger{cfg: cfg}
	if cfg.SendgridAPIKey != "" {
		m.sendgridClient = sendgrid.NewSendClient(cfg.SendgridAPIKey)
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		m.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return m
}

func (m *messenger) SendEmail(ctx context.Context, toName, toEmail, subject, plainText, html string) error {
	if m.sendgridClient == nil {
		utils.Logger.WithField("to", toEmail).Debugf("SendGrid not configured; skipping email %q", subject)
		return nil
	}

	from := mail.NewEmail(m.cfg.OrganizationName, m.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	if m.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, sendErr := m.sendgridClient.SendWithContext(ctx, message)
	if sendErr != nil {
		utils.Logger.WithError(sendErr).Errorf("Failed to send email to %s via SendGrid", toEmail)
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		utils.Logger.WithField("status", resp.StatusCode).Errorf("SendGrid rejected email to %s", toEmail)
		return fmt.Errorf("%w: sendgrid status %d", utils.ErrExternalServiceFailure, resp.StatusCode)
	}
	return nil
}

func (m *messenger) SendSMS(_ context.Context, toPhone, body string) error {
	if !m.cfg.LDFlag_SMSNotificationsEnabled || m.twilioClient == nil || m.cfg.TwilioFromPhone == "" {
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(toPhone)
	params.SetFrom(m.cfg.TwilioFromPhone)
	params.SetBody(body)

	_, sendErr := m.twilioClient.Api.CreateMessage(params)
	if sendErr != nil {
		utils.Logger.WithError(sendErr).Errorf("Failed to send SMS to %s via Twilio", toPhone)
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	return nil
}
