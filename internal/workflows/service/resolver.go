package service

import (
	"context"
	"strings"

	domain "github.com/wjlander/choo/internal/workflows/domain"
)

type resolver struct {
	dir       domain.Directory
	positions domain.PositionLookup
}

// NewResolver returns a Resolver over the member directory.
func NewResolver(dir domain.Directory, positions domain.PositionLookup) domain.Resolver {
	return &resolver{dir: dir, positions: positions}
}

// Resolve expands the recipient strategy of w. An empty result is reported
// as *UnresolvedRecipientError, never as an empty slice.
func (r *resolver) Resolve(ctx context.Context, w domain.Workflow) ([]domain.Address, error) {
	unresolved := func(t domain.RecipientType, reason string) error {
		return &domain.UnresolvedRecipientError{WorkflowID: w.ID, RecipientType: t, Reason: reason}
	}

	switch rec := w.Recipient.(type) {
	case domain.EmailRecipient:
		if rec.Email == "" {
			return nil, unresolved(domain.RecipientEmail, "no address configured")
		}
		return []domain.Address{{Email: rec.Email, Name: rec.Name}}, nil

	case domain.PositionRecipient:
		_, found, err := r.positions.ActivePosition(ctx, w.OrganizationID, rec.PositionID)
		if err != nil {
			return nil, domain.WrapStore("lookup position", err)
		}
		if !found {
			return nil, unresolved(domain.RecipientPosition, "position missing or inactive")
		}
		holders, err := r.dir.PositionHolders(ctx, w.OrganizationID, rec.PositionID)
		if err != nil {
			return nil, domain.WrapStore("position holders", err)
		}
		holders = dedupe(holders)
		if len(holders) == 0 {
			return nil, unresolved(domain.RecipientPosition, "position has no current holders")
		}
		return holders, nil

	case domain.AllMembersRecipient:
		members, err := r.dir.ActiveMembers(ctx, w.OrganizationID)
		if err != nil {
			return nil, domain.WrapStore("active members", err)
		}
		members = dedupe(members)
		if len(members) == 0 {
			return nil, unresolved(domain.RecipientAllMembers, "organization has no active members")
		}
		return members, nil
	}
	return nil, unresolved("", "no recipient strategy")
}

// dedupe drops repeated addresses, comparing case-insensitively and keeping
// the first occurrence.
func dedupe(in []domain.Address) []domain.Address {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Address, 0, len(in))
	for _, a := range in {
		key := strings.ToLower(strings.TrimSpace(a.Email))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
