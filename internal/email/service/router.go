package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/wjlander/choo/internal/config"
	edomain "github.com/wjlander/choo/internal/email/domain"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
)

// Ensure Router implements domain.Sender
var _ edomain.Sender = (*Router)(nil)

// Router picks the transport configured for the organization on every send.
type Router struct {
	cfg      config.Config
	settings sdomain.Service
	smtp     edomain.Sender
	brevo    edomain.Sender
	ses      edomain.Sender
}

func NewRouter(settings sdomain.Service, cfg config.Config) *Router {
	return &Router{
		cfg:      cfg,
		settings: settings,
		smtp:     NewSMTP(settings, cfg),
		brevo:    NewBrevo(settings, cfg),
		ses:      NewSES(settings, cfg),
	}
}

func (r *Router) Send(ctx context.Context, orgID uuid.UUID, to, subject, body string) error {
	prov, _ := r.settings.GetString(ctx, sdomain.KeyEmailProvider, &orgID, r.cfg.EmailProvider)
	switch strings.ToLower(prov) {
	case edomain.ProviderBrevo:
		return r.brevo.Send(ctx, orgID, to, subject, body)
	case edomain.ProviderSES:
		return r.ses.Send(ctx, orgID, to, subject, body)
	default:
		return r.smtp.Send(ctx, orgID, to, subject, body)
	}
}
