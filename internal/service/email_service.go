package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"

	"user-auth-backend/internal/apperrors"
	"user-auth-backend/internal/config"
)

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<html>
<body>
<p>{{.ProjectName}} - password recovery for {{.Username}}</p>
<p>Use the link below to reset your password. It is valid for {{.ValidHours}} hours.</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
</body>
</html>`))

var newAccountTemplate = template.Must(template.New("new_account").Parse(`
<html>
<body>
<p>{{.ProjectName}} - new account for {{.Username}}</p>
<p>An account has been created for you. Log in at <a href="{{.Link}}">{{.Link}}</a>.</p>
</body>
</html>`))

var testEmailTemplate = template.Must(template.New("test_email").Parse(`
<html>
<body>
<p>{{.ProjectName}} - test email for {{.Username}}</p>
<p>If you are reading this, outbound email is configured correctly.</p>
</body>
</html>`))

// EmailService sends transactional mail over SMTP. The system works without
// it; sending with no SMTP settings is a 501, not a crash.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// Configured reports whether outbound email can be sent
func (s *EmailService) Configured() bool {
	return s.cfg.SMTPConfigured()
}

func (s *EmailService) send(receiver, subject string, tmpl *template.Template, data any) error {
	if !s.Configured() {
		log.Println("SMTP settings are not configured, cannot send email")
		return apperrors.ActionUnavailable("Sending emails is unavailable")
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s",
		s.cfg.SMTP.User, receiver, subject, body.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTP.Host, s.cfg.SMTP.Port)
	auth := smtp.PlainAuth("", s.cfg.SMTP.User, s.cfg.SMTP.Password, s.cfg.SMTP.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.SMTP.User, []string{receiver}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPasswordResetEmail mails a reset link carrying the reset token
func (s *EmailService) SendPasswordResetEmail(receiver, resetToken string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.Project.FrontendHost, resetToken)
	data := struct {
		ProjectName string
		Username    string
		ValidHours  int
		Link        string
	}{
		ProjectName: s.cfg.Project.Name,
		Username:    receiver,
		ValidHours:  int(s.cfg.JWT.ResetTokenExpiry.Hours()),
		Link:        link,
	}
	subject := fmt.Sprintf("%s - Password recovery for %s", s.cfg.Project.Name, receiver)
	return s.send(receiver, subject, passwordResetTemplate, data)
}

// SendTestEmail mails a plain message so admins can verify the SMTP settings
func (s *EmailService) SendTestEmail(receiver string) error {
	data := struct {
		ProjectName string
		Username    string
	}{
		ProjectName: s.cfg.Project.Name,
		Username:    receiver,
	}
	subject := fmt.Sprintf("%s - Test email", s.cfg.Project.Name)
	return s.send(receiver, subject, testEmailTemplate, data)
}

// SendNewAccountEmail mails a welcome message for an admin-created account
func (s *EmailService) SendNewAccountEmail(receiver string) error {
	data := struct {
		ProjectName string
		Username    string
		Link        string
	}{
		ProjectName: s.cfg.Project.Name,
		Username:    receiver,
		Link:        s.cfg.Project.FrontendHost,
	}
	subject := fmt.Sprintf("%s - New account for %s", s.cfg.Project.Name, receiver)
	return s.send(receiver, subject, newAccountTemplate, data)
}
