package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/ikkim/gamecatalog-backend/config"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
)

var (
	//go:embed templates/password_reset.html
	emailTemplates embed.FS

	passwordResetTemplate = template.Must(template.New("password_reset.html").ParseFS(emailTemplates, "templates/password_reset.html"))
)

// PasswordReset is the content of a reset email.
type PasswordReset struct {
	To        string
	Username  string
	ResetLink string
	ValidFor  time.Duration
}

// Mailer delivers account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, msg PasswordReset) error
}

// New returns an SMTP mailer when SMTP is configured and a logging mailer otherwise.
func New(cfg config.SMTPConfig) Mailer {
	if !cfg.Enabled() {
		logger.Warn("SMTP is not configured, reset emails will only be logged", nil)
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

// RenderPasswordReset renders the HTML body of a reset email.
func RenderPasswordReset(msg PasswordReset) (string, error) {
	var body bytes.Buffer
	if err := passwordResetTemplate.Execute(&body, msg); err != nil {
		return "", fmt.Errorf("render password reset template: %w", err)
	}
	return body.String(), nil
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := RenderPasswordReset(msg)
	if err != nil {
		return err
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	raw := []byte(buildHTMLMessage(from, msg.To, "Password reset", body))

	if m.cfg.Port == "465" {
		err = m.sendImplicitTLS(addr, auth, from, msg.To, raw)
	} else {
		err = smtp.SendMail(addr, auth, from, []string{msg.To}, raw)
	}
	if err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"to": msg.To,
		})
		return fmt.Errorf("send password reset email: %w", err)
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"to": msg.To,
	})
	return nil
}

// sendImplicitTLS talks to servers that expect TLS from the first byte (port 465).
func (m *SMTPMailer) sendImplicitTLS(addr string, auth smtp.Auth, from, to string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(raw); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildHTMLMessage(from, to, subject, htmlBody string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s", from, to, subject, htmlBody)
}

// LogMailer writes reset links to the log instead of sending them. Used in
// development when no SMTP server is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	logger.Info("[dev] password reset email", map[string]interface{}{
		"to":         msg.To,
		"username":   msg.Username,
		"reset_link": msg.ResetLink,
	})
	return nil
}
