// Package mail is the outbound email capability: build a message, hand it
// to a Sender, get back success or failure. Transport details stay behind
// the interface so the reminder sweep can be tested with a fake.
package mail

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// Message is one outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Sender delivers one message. Implementations must not block past the
// context deadline.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	dialer      *gomail.Dialer
	from        string
	sendTimeout time.Duration
}

// NewSMTPSender builds a sender against the given relay. sendTimeout bounds
// one full dial-and-send round trip.
func NewSMTPSender(host string, port int, username, password, from string, sendTimeout time.Duration) *SMTPSender {
	return &SMTPSender{
		dialer:      gomail.NewDialer(host, port, username, password),
		from:        from,
		sendTimeout: sendTimeout,
	}
}

// Send implements Sender. gomail has no context support, so the dial-and-
// send runs in a goroutine raced against the context and the send timeout.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	timer := time.NewTimer(s.sendTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("smtp send to %s timed out after %s", msg.To, s.sendTimeout)
	}
}
