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

func TestResolve_Email(t *testing.T) {
	r := NewResolver(&fakeDirectory{}, &fakePositions{})
	got, err := r.Resolve(context.Background(), domain.Workflow{
		Recipient: domain.EmailRecipient{Email: "treasurer@org.test", Name: "Treasurer"},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{{Email: "treasurer@org.test", Name: "Treasurer"}}, got)
}

func TestResolve_PositionHoldersDeduplicated(t *testing.T) {
	org, pid := uuid.New(), uuid.New()
	dir := &fakeDirectory{holders: map[uuid.UUID][]domain.Address{pid: {
		{Email: "ana@org.test", Name: "Ana Lee"},
		{Email: "ANA@org.test", Name: "Ana Lee"},
		{Email: "bo@org.test", Name: "Bo Park"},
	}}}
	pos := &fakePositions{items: map[uuid.UUID]position{pid: {orgID: org, name: "Treasurer", active: true}}}

	got, err := NewResolver(dir, pos).Resolve(context.Background(), domain.Workflow{
		OrganizationID: org,
		Recipient:      domain.PositionRecipient{PositionID: pid},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{{Email: "ana@org.test", Name: "Ana Lee"}, {Email: "bo@org.test", Name: "Bo Park"}}, got)
}

func TestResolve_EmptyHoldersIsUnresolved(t *testing.T) {
	org, pid := uuid.New(), uuid.New()
	pos := &fakePositions{items: map[uuid.UUID]position{pid: {orgID: org, name: "Treasurer", active: true}}}
	w := domain.Workflow{ID: uuid.New(), OrganizationID: org, Recipient: domain.PositionRecipient{PositionID: pid}}

	_, err := NewResolver(&fakeDirectory{}, pos).Resolve(context.Background(), w)
	var ure *domain.UnresolvedRecipientError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, domain.RecipientPosition, ure.RecipientType)
	assert.Equal(t, w.ID, ure.WorkflowID)
	var se *domain.StoreError
	assert.False(t, errors.As(err, &se))
}

func TestResolve_InactivePositionIsUnresolved(t *testing.T) {
	org, pid := uuid.New(), uuid.New()
	dir := &fakeDirectory{holders: map[uuid.UUID][]domain.Address{pid: {{Email: "ana@org.test"}}}}
	pos := &fakePositions{items: map[uuid.UUID]position{pid: {orgID: org, name: "Treasurer"}}}

	_, err := NewResolver(dir, pos).Resolve(context.Background(), domain.Workflow{
		OrganizationID: org,
		Recipient:      domain.PositionRecipient{PositionID: pid},
	})
	var ure *domain.UnresolvedRecipientError
	assert.ErrorAs(t, err, &ure)
}

func TestResolve_AllMembers(t *testing.T) {
	dir := &fakeDirectory{active: []domain.Address{{Email: "a@org.test"}, {Email: "b@org.test"}}}
	got, err := NewResolver(dir, &fakePositions{}).Resolve(context.Background(), domain.Workflow{Recipient: domain.AllMembersRecipient{}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = NewResolver(&fakeDirectory{}, &fakePositions{}).Resolve(context.Background(), domain.Workflow{Recipient: domain.AllMembersRecipient{}})
	var ure *domain.UnresolvedRecipientError
	assert.ErrorAs(t, err, &ure)
}

func TestResolve_DirectoryFailureIsStoreError(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("pool closed")}
	_, err := NewResolver(dir, &fakePositions{}).Resolve(context.Background(), domain.Workflow{Recipient: domain.AllMembersRecipient{}})
	var se *domain.StoreError
	assert.ErrorAs(t, err, &se)
}
