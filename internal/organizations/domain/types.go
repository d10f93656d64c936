package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("organization not found")
	ErrDuplicate = errors.New("organization name or slug already exists")
)

// Organization is the membership body that owns workflows, members and committees.
type Organization struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	ContactEmail string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListOptions for organization listing
type ListOptions struct {
	// OrganizationID, when set, restricts the listing to that organization.
	OrganizationID uuid.UUID
	Query          string
	Active         int // -1 any, 1 active, 0 inactive
	Page           int
	PageSize       int
}

// ListResult holds items and pagination metadata
type ListResult struct {
	Items      []Organization
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// Repository abstracts persistence for organizations.
type Repository interface {
	Create(ctx context.Context, o Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (Organization, error)
	GetBySlug(ctx context.Context, slug string) (Organization, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query string, active int, limit, offset int32) ([]Organization, int64, error)
}

// Service encapsulates business logic for organizations.
type Service interface {
	Create(ctx context.Context, name, slug, contactEmail string) (Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (Organization, error)
	GetBySlug(ctx context.Context, slug string) (Organization, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts ListOptions) (ListResult, error)
}
