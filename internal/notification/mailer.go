package notification

import (
	"fmt"
	"net/smtp"

	"vastra-be/internal/config"
)

// Mailer sends a single email. Implementations must be safe for concurrent
// use by the dispatcher worker.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &smtpMailer{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: auth,
		from: cfg.FromEmail,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, body,
	)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}
