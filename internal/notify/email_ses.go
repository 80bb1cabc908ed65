package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// SESAPI is the subset of the SES v2 client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers reservation emails through SES v2.
type SESSender struct {
	client    SESAPI
	fromEmail string
	fromName  string
	configSet string
	logger    *logging.Logger
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	FromEmail string
	FromName  string
	// ConfigurationSet enables SES event publishing for delivery tracking. Optional.
	ConfigurationSet string
}

// NewSESSender returns nil without a client.
func NewSESSender(client SESAPI, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	return &SESSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		configSet: cfg.ConfigurationSet,
		logger:    logger,
	}
}

func utf8Content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

func (s *SESSender) input(msg EmailMessage) *sesv2.SendEmailInput {
	body := &types.Body{}
	if msg.Body != "" {
		body.Text = utf8Content(msg.Body)
	}
	if msg.HTML != "" {
		body.Html = utf8Content(msg.HTML)
	}
	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{Subject: utf8Content(msg.Subject), Body: body},
		},
		EmailTags: []types.MessageTag{{Name: aws.String("kind"), Value: aws.String(msg.tag())}},
	}
	if msg.ReplyTo != "" {
		in.ReplyToAddresses = []string{msg.ReplyTo}
	}
	if s.configSet != "" {
		in.ConfigurationSetName = aws.String(s.configSet)
	}
	return in
}

func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}

	output, err := s.client.SendEmail(ctx, s.input(msg))
	if err != nil {
		s.logger.Error("SES send failed", "error", err, "kind", string(msg.Kind), "to", logging.MaskEmail(msg.To))
		return fmt.Errorf("notify: SES send failed: %w", err)
	}

	s.logger.Info("reservation email sent", "provider", "ses", "kind", string(msg.Kind), "message_id", aws.ToString(output.MessageId))
	return nil
}

var _ EmailSender = (*SESSender)(nil)
