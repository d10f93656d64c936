package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("committee position not found")

// Position is a named role within an organization's committees.
type Position struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    string
	IsActive       bool
	DisplayOrder   int
	CreatedAt      time.Time
}

// Assignment places a member in a committee, optionally holding a position.
// EndDate nil means the assignment is open-ended.
type Assignment struct {
	CommitteeID uuid.UUID
	MemberID    uuid.UUID
	PositionID  *uuid.UUID
	StartDate   time.Time
	EndDate     *time.Time
}

// Repository abstracts persistence for committees and positions.
type Repository interface {
	ListActivePositions(ctx context.Context, orgID uuid.UUID) ([]Position, error)
	GetPosition(ctx context.Context, orgID, id uuid.UUID) (Position, error)
	CreatePosition(ctx context.Context, p Position) (Position, error)
	CreateCommittee(ctx context.Context, id, orgID uuid.UUID, name string) error
	Assign(ctx context.Context, a Assignment) error
}

// Service encapsulates business logic for committee positions.
type Service interface {
	ListActivePositions(ctx context.Context, orgID uuid.UUID) ([]Position, error)
	// ActivePosition returns ErrNotFound for missing, inactive or foreign positions.
	ActivePosition(ctx context.Context, orgID, id uuid.UUID) (Position, error)
	CreatePosition(ctx context.Context, orgID uuid.UUID, name, description string, displayOrder int) (Position, error)
	CreateCommittee(ctx context.Context, orgID uuid.UUID, name string) (uuid.UUID, error)
	Assign(ctx context.Context, a Assignment) error
}
