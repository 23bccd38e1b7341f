package mail

import (
	"bytes"
	"context"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
	"time"
)

const verifySubject = "Confirm your email"

var verifyHTML = htmltpl.Must(htmltpl.New("verify_html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #111827;">
  <h2>Welcome to {{.StoreName}}</h2>
  <p>Confirm <strong>{{.Email}}</strong> to finish creating your account.</p>
  <p><a href="{{.Link}}" style="background:#2563eb;color:#fff;padding:10px 16px;border-radius:6px;text-decoration:none;">Confirm email</a></p>
  <p style="color:#6b7280;font-size:12px;">This link expires in {{.TTL}}. If you did not sign up, ignore this message.</p>
</body>
</html>`))

var verifyText = texttpl.Must(texttpl.New("verify_txt").Parse(`Welcome to {{.StoreName}}

Confirm {{.Email}} to finish creating your account:
{{.Link}}

This link expires in {{.TTL}}. If you did not sign up, ignore this message.
`))

type verifyVars struct {
	StoreName string
	Email     string
	Link      string
	TTL       string
}

// VerificationMailer sends signup confirmation links
type VerificationMailer struct {
	sender    Sender
	storeName string
	ttl       time.Duration
}

// NewVerificationMailer creates a VerificationMailer
func NewVerificationMailer(sender Sender, storeName string, ttl time.Duration) *VerificationMailer {
	return &VerificationMailer{sender: sender, storeName: storeName, ttl: ttl}
}

// SendVerification renders and sends the confirmation e-mail
func (m *VerificationMailer) SendVerification(ctx context.Context, email, link string) error {
	msg, err := m.Render(email, link)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

// Render produces the confirmation message without sending it
func (m *VerificationMailer) Render(email, link string) (Message, error) {
	vars := verifyVars{
		StoreName: m.storeName,
		Email:     email,
		Link:      link,
		TTL:       m.ttl.String(),
	}

	var html, text bytes.Buffer
	if err := verifyHTML.Execute(&html, vars); err != nil {
		return Message{}, fmt.Errorf("render verification html: %w", err)
	}
	if err := verifyText.Execute(&text, vars); err != nil {
		return Message{}, fmt.Errorf("render verification text: %w", err)
	}
	return Message{
		To:      email,
		Subject: verifySubject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
