package service

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/wjlander/choo/internal/workflows/domain"
)

type matcher struct {
	repo domain.Repository
}

// NewMatcher returns a Matcher backed by the workflow repository.
func NewMatcher(repo domain.Repository) domain.Matcher {
	return &matcher{repo: repo}
}

// Match returns the active workflows of orgID whose trigger covers event.
// Only signup and renewal can be fired.
func (m *matcher) Match(ctx context.Context, orgID uuid.UUID, event domain.TriggerEvent) ([]domain.Workflow, error) {
	if !event.Fireable() {
		verr := &domain.ValidationError{}
		verr.Add("event", "must be signup or renewal")
		return nil, verr
	}
	rows, err := m.repo.ListActiveForEvent(ctx, orgID, event)
	if err != nil {
		return nil, domain.WrapStore("match workflows", err)
	}
	out := rows[:0]
	for _, w := range rows {
		if w.OrganizationID == orgID && w.Fires(event) {
			out = append(out, w)
		}
	}
	return out, nil
}
