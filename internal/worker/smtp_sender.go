package worker

import (
	"context"
	"fmt"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/wneessen/go-mail"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender delivers mail through the configured SMTP relay.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender builds an SMTP client. Authentication is enabled only when
// a user is configured.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.MailFrom}, nil
}

// Send delivers one HTML message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return s.client.DialAndSendWithContext(ctx, msg)
}
