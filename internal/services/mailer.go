package services

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends plain-text email through an SMTP relay.
type Mailer struct {
	addr  string
	auth  smtp.Auth
	from  string
	admin string
	send  sendMailFunc
	now   func() time.Time
}

type MailerConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
}

func NewMailer(cfg MailerConfig) *Mailer {
	m := &Mailer{
		addr:  net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:  cfg.From,
		admin: cfg.AdminEmail,
		send:  smtp.SendMail,
		now:   time.Now,
	}
	if cfg.User != "" {
		m.auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return m
}

// Send delivers one message. Any SMTP failure is returned to the caller.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to = headerSafe(to)
	if to == "" {
		return fmt.Errorf("no recipient for %q", subject)
	}

	if err := m.send(m.addr, m.auth, m.from, []string{to}, m.compose(to, subject, body)); err != nil {
		log.Printf("Failed to send email to %s (%s): %v", maskEmail(to), subject, err)
		return fmt.Errorf("send email: %w", err)
	}
	log.Printf("Email sent to %s: %s", maskEmail(to), subject)
	return nil
}

func (m *Mailer) NotifyAdmin(ctx context.Context, subject, body string) error {
	return m.Send(ctx, m.admin, subject, body)
}

func (m *Mailer) compose(to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerSafe(m.from) + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + headerSafe(subject) + "\r\n")
	b.WriteString("Date: " + m.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

// headerSafe drops line breaks so submitted values cannot add headers.
func headerSafe(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}
