package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text mail. The delivery worker is the only
// consumer; implementations must honor context cancellation so a slow
// SMTP server cannot stall the message loop.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one message. gomail has no context support, so the
// dial-and-send runs in a goroutine and the call returns early with
// the context error on timeout; the abandoned attempt finishes (or
// fails) on its own.
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail send aborted: %w", ctx.Err())
	}
}
