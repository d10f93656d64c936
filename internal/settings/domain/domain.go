package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service provides typed access to application/organization settings with override.
type Service interface {
	GetString(ctx context.Context, key string, orgID *uuid.UUID, def string) (string, error)
	GetDuration(ctx context.Context, key string, orgID *uuid.UUID, def time.Duration) (time.Duration, error)
	GetInt(ctx context.Context, key string, orgID *uuid.UUID, def int) (int, error)
}

// Repository abstracts storage of app settings.
type Repository interface {
	// Get returns (value, found, err) for an exact key and optional organization,
	// falling back to the global value.
	Get(ctx context.Context, key string, orgID *uuid.UUID) (string, bool, error)
	// Upsert stores a key for an optional organization.
	Upsert(ctx context.Context, key string, orgID *uuid.UUID, value string, secret bool) error
}

// Common keys
const (
	KeyPublicBaseURL = "app.public_base_url"
	KeyEmailProvider = "email.provider" // values: smtp | brevo | ses
	KeySMTPHost      = "email.smtp.host"
	KeySMTPPort      = "email.smtp.port"
	KeySMTPUsername  = "email.smtp.username"
	KeySMTPPassword  = "email.smtp.password"
	KeySMTPFrom      = "email.smtp.from"
	KeyBrevoAPIKey   = "email.brevo.api_key"
	KeyBrevoSender   = "email.brevo.sender"
	KeySESRegion     = "email.ses.region"
	KeySESFrom       = "email.ses.from"

	// KeyWorkflowDeliveryTimeout bounds each delivery attempt (e.g. "10s").
	KeyWorkflowDeliveryTimeout = "workflow.delivery_timeout"
)

// Rate limiting keys (per-endpoint). All are optional and support organization overrides.
// Windows use Go duration strings (e.g., "1m", "10s"). Limits are integers.
const (
	KeyRLTestSendLimit  = "workflow.ratelimit.test.limit"
	KeyRLTestSendWindow = "workflow.ratelimit.test.window"
	KeyRLTriggerLimit   = "workflow.ratelimit.trigger.limit"
	KeyRLTriggerWindow  = "workflow.ratelimit.trigger.window"

	// GET /api/v1/organizations/:id/settings
	KeyRLSettingsGetLimit  = "settings.ratelimit.get.limit"
	KeyRLSettingsGetWindow = "settings.ratelimit.get.window"
	// PUT /api/v1/organizations/:id/settings
	KeyRLSettingsPutLimit  = "settings.ratelimit.put.limit"
	KeyRLSettingsPutWindow = "settings.ratelimit.put.window"
)
