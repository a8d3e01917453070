package mail

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// Message is a plain-text email handed to a Sender.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender dispatches a single email message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages through an SMTP server using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *logrus.Logger
}

var _ Sender = (*SMTPSender)(nil)

// Options configures the SMTP sender.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Logger   *logrus.Logger
}

// NewSMTPSender constructs an SMTP-backed sender.
func NewSMTPSender(opts Options) (*SMTPSender, error) {
	if opts.Host == "" {
		return nil, eris.New("smtp host is required")
	}
	if opts.Port <= 0 {
		return nil, eris.New("smtp port must be greater than zero")
	}
	if opts.From == "" {
		return nil, eris.New("sender address is required")
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
		from:   opts.From,
		logger: opts.Logger,
	}, nil
}

// Send delivers the message synchronously. The dial happens per message; the
// sender holds no open connection between calls.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "sending mail")
	}

	if msg.To == "" {
		return eris.New("recipient address is required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		if s.logger != nil {
			s.logger.WithField("error", err.Error()).WithField("to", msg.To).Error("smtp dispatch failed")
		}
		return eris.Wrapf(err, "dispatching mail to %s", msg.To)
	}

	return nil
}
