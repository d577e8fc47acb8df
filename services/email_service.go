package services

import (
	"context"
	"restoran_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

const (
	AudienceCustomer = "customer"
	AudienceOperator = "operator"
)

// Email is one rendered message.
type Email struct {
	To       []string
	Audience string
	Subject  string
	Html     string
	Text     string
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, email *Email) error
	Name() string
}

// NewMailer picks resend when an API key is configured and the log mailer otherwise.
func NewMailer(logger *gecho.Logger, cfg *structs.Config) Mailer {
	if cfg.Email.ApiKey == "" {
		logger.Warn("RESEND_API_KEY not set, emails will be written to the log")
		return NewLogMailer(logger)
	}
	return NewEmailService(logger, cfg)
}

// EmailService sends through the Resend API.
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: resend.NewClient(cfg.Email.ApiKey),
	}
}

func (es *EmailService) Name() string {
	return "resend"
}

func (es *EmailService) Send(ctx context.Context, email *Email) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.Html,
		Text:    email.Text,
	}

	_, err := es.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", email.To))
		return err
	}

	return nil
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *gecho.Logger
}

func NewLogMailer(logger *gecho.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (lm *LogMailer) Name() string {
	return "log"
}

func (lm *LogMailer) Send(ctx context.Context, email *Email) error {
	lm.logger.Info("Email (not sent, no provider configured)",
		gecho.Field("to", strings.Join(email.To, ", ")),
		gecho.Field("subject", email.Subject),
		gecho.Field("body", email.Text),
	)
	return nil
}
