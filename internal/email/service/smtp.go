package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wjlander/choo/internal/config"
	edomain "github.com/wjlander/choo/internal/email/domain"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
)

// Ensure SMTP implements domain.Sender
var _ edomain.Sender = (*SMTP)(nil)

type SMTP struct {
	cfg      config.Config
	settings sdomain.Service
}

func NewSMTP(settings sdomain.Service, cfg config.Config) *SMTP {
	return &SMTP{settings: settings, cfg: cfg}
}

func (s *SMTP) Send(ctx context.Context, orgID uuid.UUID, to, subject, body string) error {
	host, _ := s.settings.GetString(ctx, sdomain.KeySMTPHost, &orgID, s.cfg.SMTPHost)
	from, _ := s.settings.GetString(ctx, sdomain.KeySMTPFrom, &orgID, s.cfg.SMTPFrom)
	username, _ := s.settings.GetString(ctx, sdomain.KeySMTPUsername, &orgID, s.cfg.SMTPUsername)
	password, _ := s.settings.GetString(ctx, sdomain.KeySMTPPassword, &orgID, s.cfg.SMTPPassword)
	portStr, _ := s.settings.GetString(ctx, sdomain.KeySMTPPort, &orgID, strconv.Itoa(s.cfg.SMTPPort))
	sender, err := mail.ParseAddress(from)
	if err != nil {
		return fmt.Errorf("smtp sender %q: %w", from, err)
	}
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("smtp recipient %q: %w", to, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = s.cfg.SMTPPort
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Close() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if username != "" {
		if err := c.Auth(smtp.PlainAuth("", username, password, host)); err != nil {
			return err
		}
	}
	// The envelope takes bare addresses; display names only go in headers.
	if err := c.Mail(sender.Address); err != nil {
		return err
	}
	if err := c.Rcpt(rcpt.Address); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(sender.String(), rcpt.String(), subject, body)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// headerSafe strips CR/LF so rendered values cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// buildMessage renders a plain-text message. Subject is RFC 2047 encoded when
// it carries non-ASCII text such as member names.
func buildMessage(from, to, subject, body string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		headerSafe(from), headerSafe(to), mime.QEncoding.Encode("utf-8", headerSafe(subject)), body))
}
