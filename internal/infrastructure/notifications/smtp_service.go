package notifications

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/cosmosecure/web/domain"
)

// SMTPServiceImpl implements domain.NotificationService over SMTP.
type SMTPServiceImpl struct {
	dialer *gomail.Dialer
	host   string
	from   string
}

// NewSMTPService creates a new SMTP notification service.
func NewSMTPService(host string, port int, username, password, from string) domain.NotificationService {
	return &SMTPServiceImpl{
		dialer: gomail.NewDialer(host, port, username, password),
		host:   host,
		from:   from,
	}
}

// SendEmail implements domain.NotificationService.
func (s *SMTPServiceImpl) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log instead of sending.
	if s.host == "" {
		fmt.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s\n", to, subject, body)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
