package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	domain "github.com/wjlander/choo/internal/members/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, orgID, id uuid.UUID) (domain.Member, error) {
	return s.repo.Get(ctx, orgID, id)
}

func (s *service) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.Email = strings.TrimSpace(m.Email)
	if m.FirstName == "" || m.LastName == "" {
		return domain.Member{}, errors.New("first and last name are required")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return domain.Member{}, errors.New("invalid email")
	}
	switch m.Status {
	case "":
		m.Status = domain.StatusPending
	case domain.StatusActive, domain.StatusPending, domain.StatusLapsed, domain.StatusCancelled:
	default:
		return domain.Member{}, errors.New("invalid status")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return s.repo.Create(ctx, m)
}

func (s *service) ActiveContacts(ctx context.Context, orgID uuid.UUID) ([]domain.Contact, error) {
	list, err := s.repo.ListActiveContacts(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return dedupe(list), nil
}

func (s *service) PositionHolders(ctx context.Context, orgID, positionID uuid.UUID) ([]domain.Contact, error) {
	list, err := s.repo.ListPositionHolders(ctx, orgID, positionID)
	if err != nil {
		return nil, err
	}
	return dedupe(list), nil
}

// dedupe drops blank addresses and repeats, comparing case-insensitively and
// keeping the first occurrence.
func dedupe(in []domain.Contact) []domain.Contact {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Contact, 0, len(in))
	for _, c := range in {
		c.Email = strings.TrimSpace(c.Email)
		key := strings.ToLower(c.Email)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
