package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sender is a pluggable email sending interface supporting per-organization overrides.
// Implementations should use the settings service and config defaults internally.
// orgID selects per-organization routing/config; use uuid.Nil for global.
// subject/body are plain text.
type Sender interface {
	Send(ctx context.Context, orgID uuid.UUID, to string, subject string, body string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, orgID uuid.UUID, to, subject, body string) error

func (f SenderFunc) Send(ctx context.Context, orgID uuid.UUID, to, subject, body string) error {
	return f(ctx, orgID, to, subject, body)
}

// Provider names accepted by the router.
const (
	ProviderSMTP  = "smtp"
	ProviderBrevo = "brevo"
	ProviderSES   = "ses"
)

// ErrNotConfigured is returned when the selected provider lacks credentials
// or a sender address for the organization.
var ErrNotConfigured = errors.New("email provider not configured")
