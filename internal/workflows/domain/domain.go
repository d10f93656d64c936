package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository abstracts persistence for workflows. Every call is scoped to an
// organization; ids from another organization behave as missing.
type Repository interface {
	List(ctx context.Context, orgID uuid.UUID) ([]Workflow, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (Workflow, error)
	ListActiveForEvent(ctx context.Context, orgID uuid.UUID, event TriggerEvent) ([]Workflow, error)
	Create(ctx context.Context, w Workflow) error
	// Update, SetActive and Delete return ErrNotFound when no row was affected.
	Update(ctx context.Context, w Workflow) error
	SetActive(ctx context.Context, orgID, id uuid.UUID, active bool) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// Directory supplies the people a workflow can address.
type Directory interface {
	ActiveMembers(ctx context.Context, orgID uuid.UUID) ([]Address, error)
	// PositionHolders returns members currently holding positionID in any
	// committee of the organization.
	PositionHolders(ctx context.Context, orgID, positionID uuid.UUID) ([]Address, error)
	Member(ctx context.Context, orgID, memberID uuid.UUID) (MemberProfile, error)
}

// PositionLookup reports whether a committee position can be targeted.
type PositionLookup interface {
	// ActivePosition returns the position name, or found=false when the
	// position is missing, inactive or owned by another organization.
	ActivePosition(ctx context.Context, orgID, positionID uuid.UUID) (name string, found bool, err error)
}

// Service is the operator-facing lifecycle of workflows.
type Service interface {
	List(ctx context.Context, orgID uuid.UUID) ([]Workflow, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (Workflow, error)
	Create(ctx context.Context, orgID, actorID uuid.UUID, in WorkflowInput) (Workflow, error)
	Update(ctx context.Context, orgID, actorID, id uuid.UUID, in WorkflowInput) (Workflow, error)
	Toggle(ctx context.Context, orgID, actorID, id uuid.UUID) (Workflow, error)
	Delete(ctx context.Context, orgID, actorID, id uuid.UUID) error
}

// Matcher selects the workflows a trigger event activates.
type Matcher interface {
	Match(ctx context.Context, orgID uuid.UUID, event TriggerEvent) ([]Workflow, error)
}

// Resolver turns a workflow's recipient strategy into concrete destinations.
type Resolver interface {
	Resolve(ctx context.Context, w Workflow) ([]Address, error)
}

// Engine fires workflows for trigger events and sends operator test copies.
type Engine interface {
	Fire(ctx context.Context, orgID uuid.UUID, t Trigger) FireReport
	SendTest(ctx context.Context, cred Credential, req TestSendRequest) error
}
