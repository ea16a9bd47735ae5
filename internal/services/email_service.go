package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailService is the delivery gateway for one-time codes.
type EmailService interface {
	SendOTP(email, code string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendOTP(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your SecularAI Verification Code")

	body := fmt.Sprintf(`
		<div style="font-family: Inter, Arial, sans-serif; max-width: 480px; margin: 0 auto; padding: 32px;">
		  <h1 style="font-size: 24px; font-weight: 700; margin-bottom: 8px;">Secular<span style="color: #38bdf8;">AI</span></h1>
		  <p style="color: #64748b; margin-bottom: 24px;">Explore the wisdom of all traditions</p>
		  <p style="margin-bottom: 8px;">Your verification code is:</p>
		  <div style="font-size: 40px; font-weight: 800; letter-spacing: 12px; text-align: center; margin: 16px 0 24px;">%s</div>
		  <p style="font-size: 13px; color: #64748b;">If you didn't request this, please ignore this email.</p>
		</div>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
