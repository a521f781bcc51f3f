package mail

import (
	"context"
	"errors"
	"fmt"

	"nonprofit-api/internal/core/domain"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("email has no recipients")

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// SMTPMailer delivers email through an SMTP relay. Each Send opens its own
// connection, so the mailer is safe for concurrent use.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		name:   cfg.FromName,
	}
}

// Send delivers one message
func (m *SMTPMailer) Send(ctx context.Context, email domain.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.buildMessage(email)
	if err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *SMTPMailer) buildMessage(email domain.Email) (*gomail.Message, error) {
	if len(email.To) == 0 && len(email.Bcc) == 0 {
		return nil, ErrNoRecipients
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.name)
	if len(email.To) > 0 {
		msg.SetHeader("To", email.To...)
	} else {
		// BCC-only broadcast: address it to ourselves
		msg.SetAddressHeader("To", m.from, m.name)
	}
	if len(email.Bcc) > 0 {
		msg.SetHeader("Bcc", email.Bcc...)
	}
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)
	return msg, nil
}
