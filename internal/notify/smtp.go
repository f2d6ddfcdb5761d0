package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPNotifier delivers notifications as HTML mail over SMTP.
type SMTPNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string

	// send allows tests to stub out the SMTP dial.
	send func(host string, port int, user, pass string, msg *gomail.Message) error
}

// NewSMTPNotifier constructs an SMTP-backed notifier.
func NewSMTPNotifier(host string, port int, username, password, from, fromName string) *SMTPNotifier {
	return &SMTPNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		FromName: fromName,
	}
}

// Send renders the notification and delivers it via SMTP. The context is
// consulted before dialing; gomail itself does not support cancellation.
func (n *SMTPNotifier) Send(ctx context.Context, kind Kind, to Recipient, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Host == "" || n.From == "" {
		return fmt.Errorf("smtp notifier not configured")
	}

	mail := Render(kind, to, payload)

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", n.FromName, n.From))
	msg.SetHeader("To", to.Email)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.Body)

	sender := n.send
	if sender == nil {
		sender = dialAndSend
	}
	if err := sender(n.Host, n.Port, n.Username, n.Password, msg); err != nil {
		return fmt.Errorf("smtp send %s: %w", kind, err)
	}
	return nil
}

func dialAndSend(host string, port int, user, pass string, msg *gomail.Message) error {
	dialer := gomail.NewDialer(host, port, user, pass)
	return dialer.DialAndSend(msg)
}

var _ Notifier = (*SMTPNotifier)(nil)
