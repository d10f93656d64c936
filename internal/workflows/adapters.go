package workflows

import (
	"context"
	"errors"

	"github.com/google/uuid"

	cdomain "github.com/wjlander/choo/internal/committees/domain"
	mdomain "github.com/wjlander/choo/internal/members/domain"
	domain "github.com/wjlander/choo/internal/workflows/domain"
)

// directory exposes the member directory in the shape the resolver needs.
type directory struct {
	members mdomain.Service
}

var _ domain.Directory = directory{}

func toAddresses(in []mdomain.Contact) []domain.Address {
	out := make([]domain.Address, 0, len(in))
	for _, c := range in {
		out = append(out, domain.Address{Email: c.Email, Name: c.DisplayName()})
	}
	return out
}

func (d directory) ActiveMembers(ctx context.Context, orgID uuid.UUID) ([]domain.Address, error) {
	cs, err := d.members.ActiveContacts(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toAddresses(cs), nil
}

func (d directory) PositionHolders(ctx context.Context, orgID, positionID uuid.UUID) ([]domain.Address, error) {
	cs, err := d.members.PositionHolders(ctx, orgID, positionID)
	if err != nil {
		return nil, err
	}
	return toAddresses(cs), nil
}

func (d directory) Member(ctx context.Context, orgID, memberID uuid.UUID) (domain.MemberProfile, error) {
	m, err := d.members.Get(ctx, orgID, memberID)
	if errors.Is(err, mdomain.ErrNotFound) {
		return domain.MemberProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MemberProfile{}, err
	}
	return domain.MemberProfile{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		MembershipType: m.MembershipType,
	}, nil
}

// positions answers position lookups from the committees service.
type positions struct {
	committees cdomain.Service
}

var _ domain.PositionLookup = positions{}

func (p positions) ActivePosition(ctx context.Context, orgID, positionID uuid.UUID) (string, bool, error) {
	pos, err := p.committees.ActivePosition(ctx, orgID, positionID)
	if errors.Is(err, cdomain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pos.Name, true, nil
}
