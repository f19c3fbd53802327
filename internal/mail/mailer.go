package mail

import (
	"context"
	"fmt"
	"net/smtp"
)

// Message is an outbound e-mail.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages synchronously and best-effort: a returned error
// means the message was not handed off, and no retry is attempted here.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the transport settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the message. The configured From is used when the message
// does not carry one.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = m.cfg.From
	}

	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, msg.To, msg.Subject, msg.Body)
	addr := m.cfg.Host + ":" + m.cfg.Port

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, from, []string{msg.To}, []byte(raw))
}

var _ Mailer = (*SMTPMailer)(nil)
