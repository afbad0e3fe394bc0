// Package email delivers notification mail through an authenticated SMTP
// session. Delivery failures are logged by the caller and never retried
// automatically.
package email

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Message is one outbound notification. Attachment is optional; at most one
// is supported.
type Message struct {
	To             []string
	Subject        string
	HTMLBody       string
	Attachment     []byte
	AttachmentName string
}

type Sender interface {
	Send(msg Message) error
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPSender sends via STARTTLS-capable SMTP with PLAIN auth.
type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.From = strings.TrimSpace(cfg.From)
	if cfg.From == "" {
		cfg.From = "no-reply@villadesk.local"
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := s.cfg.Host + ":" + s.cfg.Port
	body := BuildMessage(s.cfg.From, msg)
	return smtp.SendMail(addr, auth, s.cfg.From, msg.To, body)
}

const attachmentBoundary = "villadesk-attachment-boundary"

// BuildMessage renders the RFC 5322 message: plain HTML when there is no
// attachment, multipart/mixed with a base64 part otherwise.
func BuildMessage(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachment) == 0 {
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.HTMLBody)
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", attachmentBoundary)

	fmt.Fprintf(&b, "--%s\r\n", attachmentBoundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	name := msg.AttachmentName
	if name == "" {
		name = "attachment"
	}
	fmt.Fprintf(&b, "--%s\r\n", attachmentBoundary)
	b.WriteString("Content-Type: application/octet-stream\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", name)

	encoded := base64.StdEncoding.EncodeToString(msg.Attachment)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "--%s--\r\n", attachmentBoundary)
	return []byte(b.String())
}
