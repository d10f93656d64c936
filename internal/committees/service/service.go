package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domain "github.com/wjlander/choo/internal/committees/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) ListActivePositions(ctx context.Context, orgID uuid.UUID) ([]domain.Position, error) {
	return s.repo.ListActivePositions(ctx, orgID)
}

func (s *service) ActivePosition(ctx context.Context, orgID, id uuid.UUID) (domain.Position, error) {
	if id == uuid.Nil {
		return domain.Position{}, domain.ErrNotFound
	}
	p, err := s.repo.GetPosition(ctx, orgID, id)
	if err != nil {
		return domain.Position{}, err
	}
	if !p.IsActive {
		return domain.Position{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *service) CreatePosition(ctx context.Context, orgID uuid.UUID, name, description string, displayOrder int) (domain.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Position{}, errors.New("position name is required")
	}
	return s.repo.CreatePosition(ctx, domain.Position{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		Description:    strings.TrimSpace(description),
		IsActive:       true,
		DisplayOrder:   displayOrder,
	})
}

func (s *service) CreateCommittee(ctx context.Context, orgID uuid.UUID, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, errors.New("committee name is required")
	}
	id := uuid.New()
	if err := s.repo.CreateCommittee(ctx, id, orgID, name); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *service) Assign(ctx context.Context, a domain.Assignment) error {
	if a.EndDate != nil && !a.StartDate.IsZero() && a.EndDate.Before(a.StartDate) {
		return errors.New("end date before start date")
	}
	return s.repo.Assign(ctx, a)
}
