package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event represents an admin/audit event.
// Type examples: "workflow.created", "workflow.delivery.failed"
// Meta may contain workflow_id, recipient, error, etc.
type Event struct {
	Type           string
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	Meta           map[string]string
	Time           time.Time
}

// Publisher publishes events to an external system (log, queue, etc.).
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
