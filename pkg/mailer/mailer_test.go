package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/gamecatalog-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPasswordReset(t *testing.T) {
	body, err := RenderPasswordReset(PasswordReset{
		To:        "alice@example.com",
		Username:  "alice",
		ResetLink: "http://localhost:3000/reset-password/abc.def?x=<script>",
		ValidFor:  15 * time.Minute,
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hello alice")
	assert.Contains(t, body, "http://localhost:3000/reset-password/abc.def")
	assert.Contains(t, body, "15m0s")
	assert.NotContains(t, body, "<script>")
}

func TestNew_FallsBackToLogMailer(t *testing.T) {
	m := New(config.SMTPConfig{})
	_, ok := m.(*LogMailer)
	assert.True(t, ok)

	assert.NoError(t, m.SendPasswordReset(context.Background(), PasswordReset{To: "a@example.com"}))
}

func TestNew_SMTPWhenConfigured(t *testing.T) {
	m := New(config.SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "bot"})
	_, ok := m.(*SMTPMailer)
	assert.True(t, ok)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := &SMTPMailer{cfg: config.SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "bot"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendPasswordReset(ctx, PasswordReset{To: "a@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildHTMLMessage(t *testing.T) {
	msg := buildHTMLMessage("from@example.com", "to@example.com", "Password reset", "<p>hi</p>")
	assert.Contains(t, msg, "To: to@example.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "\r\n\r\n<p>hi</p>")
}
