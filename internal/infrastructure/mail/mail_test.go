package mail

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestVerificationMailer_SendVerification(t *testing.T) {
	rec := &recordingSender{}
	m := NewVerificationMailer(rec, "storefront", 24*time.Hour)

	link := "http://localhost:8080/api/v1/auth/verify?token=abc&x=<y>"
	require.NoError(t, m.SendVerification(context.Background(), "jane@example.com", link))

	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Confirm your email", msg.Subject)
	assert.Contains(t, msg.Text, link)
	assert.Contains(t, msg.Text, "24h0m0s")
	assert.Contains(t, msg.HTML, "token=abc&amp;x=%3cy%3e")
}

func TestNewSender(t *testing.T) {
	_, isLog := NewSender(config.MailConfig{}, zap.NewNop()).(*LogSender)
	assert.True(t, isLog)

	_, isSMTP := NewSender(config.MailConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop()).(*SMTPSender)
	assert.True(t, isSMTP)
}

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), Message{To: "a@b.co", Subject: "hi", Text: "body"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@b.co", logs.All()[0].ContextMap()["to"])
}

func TestBuildMessage_Multipart(t *testing.T) {
	m := buildMessage("no-reply@storefront.local", Message{To: "a@b.co", Subject: "s", Text: "plain", HTML: "<p>rich</p>"})

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "plain")
	assert.Contains(t, out, "<p>rich</p>")
}
