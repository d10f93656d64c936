package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdomain "github.com/wjlander/choo/internal/committees/domain"
	mdomain "github.com/wjlander/choo/internal/members/domain"
	odomain "github.com/wjlander/choo/internal/organizations/domain"
	wdomain "github.com/wjlander/choo/internal/workflows/domain"
)

type fakeOrgs struct {
	odomain.Service
	bySlug map[string]odomain.Organization
}

func (f *fakeOrgs) GetBySlug(_ context.Context, slug string) (odomain.Organization, error) {
	if o, ok := f.bySlug[slug]; ok {
		return o, nil
	}
	return odomain.Organization{}, odomain.ErrNotFound
}

func (f *fakeOrgs) Create(_ context.Context, name, slug, contact string) (odomain.Organization, error) {
	o := odomain.Organization{ID: uuid.New(), Name: name, Slug: slug, ContactEmail: contact}
	f.bySlug[slug] = o
	return o, nil
}

type fakeMembers struct {
	mdomain.Service
	created []mdomain.Member
}

func (f *fakeMembers) Create(_ context.Context, m mdomain.Member) (mdomain.Member, error) {
	m.ID = uuid.New()
	f.created = append(f.created, m)
	return m, nil
}

type fakeCommittees struct {
	cdomain.Service
	positions []cdomain.Position
	assigned  []cdomain.Assignment
}

func (f *fakeCommittees) ListActivePositions(context.Context, uuid.UUID) ([]cdomain.Position, error) {
	return f.positions, nil
}

func (f *fakeCommittees) CreatePosition(_ context.Context, orgID uuid.UUID, name, _ string, order int) (cdomain.Position, error) {
	p := cdomain.Position{ID: uuid.New(), OrganizationID: orgID, Name: name, IsActive: true, DisplayOrder: order}
	f.positions = append(f.positions, p)
	return p, nil
}

func (f *fakeCommittees) CreateCommittee(context.Context, uuid.UUID, string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeCommittees) Assign(_ context.Context, a cdomain.Assignment) error {
	f.assigned = append(f.assigned, a)
	return nil
}

type fakeWorkflows struct {
	items []wdomain.Workflow
}

func (f *fakeWorkflows) List(_ context.Context, orgID uuid.UUID) ([]wdomain.Workflow, error) {
	return f.items, nil
}

func (f *fakeWorkflows) Create(_ context.Context, orgID, _ uuid.UUID, in wdomain.WorkflowInput) (wdomain.Workflow, error) {
	w := wdomain.Workflow{ID: uuid.New(), OrganizationID: orgID, Name: in.Name, TriggerEvent: in.TriggerEvent, Recipient: in.Recipient, IsActive: true}
	f.items = append(f.items, w)
	return w, nil
}

func newSeeder() (seeder, *fakeMembers, *fakeCommittees, *fakeWorkflows) {
	m, c, w := &fakeMembers{}, &fakeCommittees{}, &fakeWorkflows{}
	return seeder{orgs: &fakeOrgs{bySlug: map[string]odomain.Organization{}}, members: m, committees: c, workflows: w}, m, c, w
}

func TestSeedDefault(t *testing.T) {
	s, m, c, w := newSeeder()
	out, err := s.seedDefault(context.Background(), "Riverside Club", "treasurer@club.test")
	require.NoError(t, err)

	require.Len(t, m.created, 1)
	assert.Equal(t, mdomain.StatusActive, m.created[0].Status)
	require.Len(t, c.assigned, 1)
	assert.Nil(t, c.assigned[0].EndDate)
	assert.Equal(t, out["POSITION_ID"], c.assigned[0].PositionID.String())

	require.Len(t, w.items, 2)
	assert.Equal(t, wdomain.EmailRecipient{Email: "treasurer@club.test"}, w.items[0].Recipient)
	assert.Equal(t, wdomain.TriggerRenewal, w.items[1].TriggerEvent)
	assert.IsType(t, wdomain.PositionRecipient{}, w.items[1].Recipient)

	// Second run reuses the organization, position and workflows.
	again, err := s.seedDefault(context.Background(), "Riverside Club", "treasurer@club.test")
	require.NoError(t, err)
	assert.Equal(t, out["ORG_ID"], again["ORG_ID"])
	assert.Equal(t, out["POSITION_ID"], again["POSITION_ID"])
	assert.Len(t, w.items, 2)
}

func TestEnsureOrganization_RequiresName(t *testing.T) {
	s, _, _, _ := newSeeder()
	_, err := s.ensureOrganization(context.Background(), "  ", "")
	assert.ErrorIs(t, err, errNameRequired)
}
