package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mailersend/mailersend-go"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// MailerSendSender sends emails via the MailerSend API.
type MailerSendSender struct {
	client *mailersend.Mailersend
	from   mailersend.From
	logger *logging.Logger
}

// MailerSendConfig holds configuration for MailerSend.
type MailerSendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// HTTPClient replaces the default transport. Optional.
	HTTPClient *http.Client
}

// NewMailerSendSender returns nil unless both an API key and a sender
// address are configured.
func NewMailerSendSender(cfg MailerSendConfig, logger *logging.Logger) *MailerSendSender {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	client := mailersend.NewMailersend(cfg.APIKey)
	if cfg.HTTPClient != nil {
		client.SetClient(cfg.HTTPClient)
	}
	return &MailerSendSender{
		client: client,
		from:   mailersend.From{Name: cfg.FromName, Email: cfg.FromEmail},
		logger: logger,
	}
}

// Send sends an email via MailerSend.
func (s *MailerSendSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: mailersend client not configured")
	}

	message := s.client.Email.NewMessage()
	message.SetFrom(s.from)
	message.SetRecipients([]mailersend.Recipient{{Name: msg.ToName, Email: msg.To}})
	message.SetSubject(msg.Subject)
	if strings.TrimSpace(msg.Body) != "" {
		message.SetText(msg.Body)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		message.SetHTML(msg.HTML)
	}
	message.SetTags([]string{msg.tag()})
	if msg.ReplyTo != "" {
		message.SetReplyTo(mailersend.ReplyTo{Name: s.from.Name, Email: msg.ReplyTo})
	}

	if _, err := s.client.Email.Send(ctx, message); err != nil {
		s.logger.Error("mailersend send failed", "error", err, "kind", string(msg.Kind), "to", logging.MaskEmail(msg.To))
		return fmt.Errorf("notify: mailersend send failed: %w", err)
	}

	s.logger.Info("reservation email sent", "provider", "mailersend", "kind", string(msg.Kind), "to", logging.MaskEmail(msg.To))
	return nil
}

var _ EmailSender = (*MailerSendSender)(nil)
