package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
)

// Message is the contract the workflows produce: sender, recipient, subject,
// plain-text body.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPMailer(host, port, username, password string) Mailer {
	return &smtpMailer{host: host, port: port, username: username, password: password}
}

func NewSMTPMailerFromEnv() Mailer {
	return NewSMTPMailer(
		os.Getenv("SMTP_HOST"),
		os.Getenv("SMTP_PORT"),
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
	)
}

func (m *smtpMailer) Send(_ context.Context, msg Message) error {
	addr := m.host + ":" + m.port

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	payload := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		msg.From, msg.To, msg.Subject, msg.Body,
	)

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, []byte(payload)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
