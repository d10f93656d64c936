package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("member not found")

// Status values; only active members receive all-members mail.
const (
	StatusActive    = "active"
	StatusPending   = "pending"
	StatusLapsed    = "lapsed"
	StatusCancelled = "cancelled"
)

type Member struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	MembershipType string
	Status         string
}

// Contact is the addressable part of a member.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
}

func (c Contact) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	}
	return c.LastName
}

type Repository interface {
	Get(ctx context.Context, orgID, id uuid.UUID) (Member, error)
	Create(ctx context.Context, m Member) (Member, error)
	ListActiveContacts(ctx context.Context, orgID uuid.UUID) ([]Contact, error)
	// ListPositionHolders returns members whose assignment to positionID has
	// no end date or ends today or later.
	ListPositionHolders(ctx context.Context, orgID, positionID uuid.UUID) ([]Contact, error)
}

type Service interface {
	Get(ctx context.Context, orgID, id uuid.UUID) (Member, error)
	Create(ctx context.Context, m Member) (Member, error)
	ActiveContacts(ctx context.Context, orgID uuid.UUID) ([]Contact, error)
	PositionHolders(ctx context.Context, orgID, positionID uuid.UUID) ([]Contact, error)
}
