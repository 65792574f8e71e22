// Package notify emails run reports when unattended collections finish, so
// overnight batches never fail silently.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/notify")

type SmtpConfig struct {
	Server  string `json:"server"`
	Port    int    `json:"port"`
	Address string `json:"address"`
	// Password may stay empty for servers without AUTH.
	Password string   `json:"password"`
	To       []string `json:"to"`
}

func (c SmtpConfig) validate() error {
	if c.Server == "" {
		return fmt.Errorf("smtp server is required")
	}
	if c.Address == "" {
		return fmt.Errorf("smtp sender address is required")
	}
	if len(c.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	return nil
}

type Mailer struct {
	config SmtpConfig
}

func NewMailer(config SmtpConfig) (Mailer, error) {
	if err := config.validate(); err != nil {
		return Mailer{}, err
	}
	if config.Port == 0 {
		config.Port = 587
	}
	return Mailer{config: config}, nil
}

type Message struct {
	Subject string
	Body    string
}

// Send delivers the message to every configured recipient. Servers that
// reject AUTH get one retry without credentials.
func (m Mailer) Send(ctx context.Context, msg Message) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Statshub Collector <%s>", m.config.Address)
	mail.To = m.config.To
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Body)

	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", m.config.Address, m.config.Password, m.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send report email: %w", err)
	}
	return nil
}
