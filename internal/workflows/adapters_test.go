package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdomain "github.com/wjlander/choo/internal/committees/domain"
	mdomain "github.com/wjlander/choo/internal/members/domain"
	domain "github.com/wjlander/choo/internal/workflows/domain"
)

type fakeMembers struct {
	mdomain.Service
	contacts []mdomain.Contact
	member   mdomain.Member
	err      error
}

func (f fakeMembers) ActiveContacts(context.Context, uuid.UUID) ([]mdomain.Contact, error) {
	return f.contacts, f.err
}

func (f fakeMembers) PositionHolders(context.Context, uuid.UUID, uuid.UUID) ([]mdomain.Contact, error) {
	return f.contacts, f.err
}

func (f fakeMembers) Get(context.Context, uuid.UUID, uuid.UUID) (mdomain.Member, error) {
	return f.member, f.err
}

type fakeCommittees struct {
	cdomain.Service
	pos cdomain.Position
	err error
}

func (f fakeCommittees) ActivePosition(context.Context, uuid.UUID, uuid.UUID) (cdomain.Position, error) {
	return f.pos, f.err
}

func TestDirectory_Addresses(t *testing.T) {
	d := directory{members: fakeMembers{contacts: []mdomain.Contact{
		{Email: "ana@org.test", FirstName: "Ana", LastName: "Lee"},
		{Email: "bo@org.test", FirstName: "Bo"},
	}}}
	got, err := d.PositionHolders(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{{Email: "ana@org.test", Name: "Ana Lee"}, {Email: "bo@org.test", Name: "Bo"}}, got)

	got, err = d.ActiveMembers(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDirectory_Member(t *testing.T) {
	id := uuid.New()
	d := directory{members: fakeMembers{member: mdomain.Member{ID: id, FirstName: "Ana", LastName: "Lee", Email: "ana@org.test", MembershipType: "Adult"}}}
	p, err := d.Member(context.Background(), uuid.New(), id)
	require.NoError(t, err)
	assert.Equal(t, "Adult", p.Variables()[domain.VarMembershipType])

	d = directory{members: fakeMembers{err: mdomain.ErrNotFound}}
	_, err = d.Member(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPositions_ActivePosition(t *testing.T) {
	name, found, err := positions{committees: fakeCommittees{pos: cdomain.Position{Name: "Treasurer"}}}.ActivePosition(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Treasurer", name)

	_, found, err = positions{committees: fakeCommittees{err: cdomain.ErrNotFound}}.ActivePosition(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, found)

	boom := errors.New("db down")
	_, _, err = positions{committees: fakeCommittees{err: boom}}.ActivePosition(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, boom)
}
