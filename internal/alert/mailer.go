package alert

import (
	"context"
	"fmt"

	"github.com/keys-i/CreekLink/internal/config"
	"github.com/wneessen/go-mail"
)

// SMTPSender delivers alert messages over an authenticated STARTTLS session
// to the configured relay. Each Send dials a fresh connection; alert volume
// is far too low to justify keeping one open.
type SMTPSender struct {
	cfg config.SMTP
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg config.SMTP) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send composes and transmits one plain-text email.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}
