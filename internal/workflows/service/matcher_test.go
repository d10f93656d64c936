package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/wjlander/choo/internal/workflows/domain"
)

func ids(ws []domain.Workflow) []uuid.UUID {
	out := make([]uuid.UUID, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return out
}

func TestMatch(t *testing.T) {
	repo := newMemRepo()
	org, other := uuid.New(), uuid.New()
	email := domain.EmailRecipient{Email: "x@org.test"}

	signup := repo.put(domain.Workflow{OrganizationID: org, TriggerEvent: domain.TriggerSignup, Recipient: email, IsActive: true})
	both := repo.put(domain.Workflow{OrganizationID: org, TriggerEvent: domain.TriggerBoth, Recipient: email, IsActive: true})
	renewal := repo.put(domain.Workflow{OrganizationID: org, TriggerEvent: domain.TriggerRenewal, Recipient: email, IsActive: true})
	repo.put(domain.Workflow{OrganizationID: org, TriggerEvent: domain.TriggerSignup, Recipient: email, IsActive: false})
	repo.put(domain.Workflow{OrganizationID: org, TriggerEvent: domain.TriggerBoth, Recipient: email, IsActive: false})
	repo.put(domain.Workflow{OrganizationID: other, TriggerEvent: domain.TriggerSignup, Recipient: email, IsActive: true})

	m := NewMatcher(repo)

	got, err := m.Match(context.Background(), org, domain.TriggerSignup)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{signup.ID, both.ID}, ids(got))

	got, err = m.Match(context.Background(), org, domain.TriggerRenewal)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{renewal.ID, both.ID}, ids(got))
	for _, w := range got {
		assert.NotEqual(t, domain.TriggerSignup, w.TriggerEvent)
	}
}

func TestMatch_RejectsUnfireableEvents(t *testing.T) {
	m := NewMatcher(newMemRepo())
	for _, ev := range []domain.TriggerEvent{domain.TriggerBoth, "cancel", ""} {
		_, err := m.Match(context.Background(), uuid.New(), ev)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr, "event %q", ev)
	}
}

func TestMatch_StoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("timeout")
	_, err := NewMatcher(repo).Match(context.Background(), uuid.New(), domain.TriggerSignup)
	var se *domain.StoreError
	assert.ErrorAs(t, err, &se)
}
