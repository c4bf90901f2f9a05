package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender отправляет письма через SMTP
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, username, password string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (s *Sender) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
