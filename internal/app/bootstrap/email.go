package bootstrap

import (
	"strings"

	appconfig "github.com/wolfman30/restaurant-webhook/internal/config"
	"github.com/wolfman30/restaurant-webhook/internal/notify"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// Email providers selectable with EMAIL_PROVIDER.
const (
	EmailAuto       = "auto"
	EmailSendGrid   = "sendgrid"
	EmailSES        = "ses"
	EmailMailerSend = "mailersend"
	EmailStub       = "stub"
)

// BuildEmailSender picks the configured provider. "auto" tries SendGrid,
// MailerSend and SES in that order. When the chosen provider is not
// configured the stub sender is used and the reason is returned.
func BuildEmailSender(cfg *appconfig.Config, ses notify.SESAPI, logger *logging.Logger) (notify.EmailSender, string, string) {
	if logger == nil {
		logger = logging.Default()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider))
	if provider == "" {
		provider = EmailAuto
	}

	try := func(name string) notify.EmailSender {
		switch name {
		case EmailSendGrid:
			if s := notify.NewSendGridSender(notify.SendGridConfig{
				APIKey:    cfg.SendGridAPIKey,
				FromEmail: cfg.EmailFromAddress,
				FromName:  cfg.EmailFromName,
			}, logger); s != nil {
				return s
			}
		case EmailMailerSend:
			if s := notify.NewMailerSendSender(notify.MailerSendConfig{
				APIKey:    cfg.MailerSendAPIKey,
				FromEmail: cfg.EmailFromAddress,
				FromName:  cfg.EmailFromName,
			}, logger); s != nil {
				return s
			}
		case EmailSES:
			if cfg.EmailFromAddress == "" {
				return nil
			}
			if s := notify.NewSESSender(ses, notify.SESConfig{
				FromEmail:        cfg.EmailFromAddress,
				FromName:         cfg.EmailFromName,
				ConfigurationSet: cfg.SESConfigSet,
			}, logger); s != nil {
				return s
			}
		}
		return nil
	}

	switch provider {
	case EmailStub:
		return notify.NewStubEmailSender(logger), EmailStub, "stub requested"
	case EmailAuto:
		for _, name := range []string{EmailSendGrid, EmailMailerSend, EmailSES} {
			if s := try(name); s != nil {
				return s, name, ""
			}
		}
		return notify.NewStubEmailSender(logger), EmailStub, "no email provider configured"
	case EmailSendGrid, EmailMailerSend, EmailSES:
		if s := try(provider); s != nil {
			return s, provider, ""
		}
		return notify.NewStubEmailSender(logger), EmailStub, provider + " not configured"
	default:
		return notify.NewStubEmailSender(logger), EmailStub, "unknown email provider " + provider
	}
}
