package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// EmailSender delivers one rendered reservation email. SendGrid, SES and
// MailerSend implementations are interchangeable.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a rendered reservation email.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text
	HTML    string // optional
	// Kind tags the message with the reservation event that produced it.
	Kind EmailKind
	// ReplyTo routes guest replies to the restaurant instead of the sender address.
	ReplyTo string
}

// tag is the provider-side category for msg.
func (m EmailMessage) tag() string {
	if m.Kind == "" {
		return "reservation"
	}
	return "reservation-" + string(m.Kind)
}

// DefaultFromName is used when no sender name is configured.
const DefaultFromName = "Reservations"

// SendGridSender delivers reservation emails through the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// BaseURL overrides https://api.sendgrid.com, e.g. for a local mock.
	BaseURL string
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	client := sendgrid.NewSendClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		client.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v3/mail/send"
	}
	return &SendGridSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.Body,
		html,
	)
	message.AddCategories(msg.tag())
	if msg.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail(s.fromName, msg.ReplyTo))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "kind", string(msg.Kind), "to", logging.MaskEmail(msg.To))
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected reservation email", "status", response.StatusCode, "body", response.Body, "kind", string(msg.Kind))
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("reservation email sent", "provider", "sendgrid", "kind", string(msg.Kind), "to", logging.MaskEmail(msg.To))
	return nil
}

// StubEmailSender logs reservation emails instead of sending them. Used when
// no provider is configured.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("reservation email not sent: no provider", "kind", string(msg.Kind), "to", logging.MaskEmail(msg.To), "subject", msg.Subject)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
