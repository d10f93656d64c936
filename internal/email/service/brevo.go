package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/wjlander/choo/internal/config"
	edomain "github.com/wjlander/choo/internal/email/domain"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
	"github.com/wjlander/choo/internal/version"
)

var _ edomain.Sender = (*Brevo)(nil)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Brevo delivers through the Brevo transactional email API. The API key and
// sender come from organization settings, falling back to process config.
type Brevo struct {
	cfg      config.Config
	settings sdomain.Service
	http     *http.Client
}

func NewBrevo(settings sdomain.Service, cfg config.Config) *Brevo {
	return &Brevo{settings: settings, cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoEmail struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	Subject     string            `json:"subject"`
	TextContent string            `json:"textContent"`
	Tags        []string          `json:"tags,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// BrevoError is a non-2xx answer from the API.
type BrevoError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *BrevoError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("brevo send failed: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("brevo send failed: %d %s: %s", e.Status, e.Code, e.Message)
}

// parseContact accepts "office@club.test" or "Club Office <office@club.test>".
func parseContact(s string) (brevoContact, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return brevoContact{}, err
	}
	return brevoContact{Email: a.Address, Name: a.Name}, nil
}

func (b *Brevo) Send(ctx context.Context, orgID uuid.UUID, to, subject, body string) error {
	apiKey, _ := b.settings.GetString(ctx, sdomain.KeyBrevoAPIKey, &orgID, b.cfg.BrevoAPIKey)
	senderRaw, _ := b.settings.GetString(ctx, sdomain.KeyBrevoSender, &orgID, b.cfg.BrevoSender)
	if apiKey == "" || senderRaw == "" {
		return fmt.Errorf("brevo: %w", edomain.ErrNotConfigured)
	}
	sender, err := parseContact(senderRaw)
	if err != nil {
		return fmt.Errorf("brevo sender %q: %w", senderRaw, err)
	}
	rcpt, err := parseContact(to)
	if err != nil {
		return fmt.Errorf("brevo recipient %q: %w", to, err)
	}

	payload := brevoEmail{
		Sender:      sender,
		To:          []brevoContact{rcpt},
		Subject:     subject,
		TextContent: body,
		Tags:        []string{"choo-workflow"},
	}
	if orgID != uuid.Nil {
		payload.Headers = map[string]string{"X-Choo-Organization": orgID.String()}
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", apiKey)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	apiErr := &BrevoError{Status: resp.StatusCode}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(apiErr)
	return apiErr
}
