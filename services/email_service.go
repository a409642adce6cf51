package services

import (
	"fmt"
	"time"

	"rentProject/config"

	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	owner  string
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
		owner:  cfg.Owner.Email,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// Deliver отправляет уведомление владельцу. Реализует интерфейс Notifier.
func (s *EmailService) Deliver(title, body string) error {
	html := fmt.Sprintf(`
		<h2>%s</h2>
		<p>%s</p>
		<p>Дата: %s</p>
	`, title, body, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(s.owner, title, html)
}
