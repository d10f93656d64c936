package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evsvc "github.com/wjlander/choo/internal/events/service"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
	domain "github.com/wjlander/choo/internal/workflows/domain"
)

type engineFixture struct {
	org    uuid.UUID
	repo   *memRepo
	dir    *fakeDirectory
	pos    *fakePositions
	sender *captureSender
	rec    *evsvc.Recorder
	engine *Engine
}

func newEngineFixture(t *testing.T, settings sdomain.Service) *engineFixture {
	t.Helper()
	f := &engineFixture{
		org:    uuid.New(),
		repo:   newMemRepo(),
		dir:    &fakeDirectory{holders: map[uuid.UUID][]domain.Address{}, members: map[uuid.UUID]domain.MemberProfile{}},
		pos:    &fakePositions{items: map[uuid.UUID]position{}},
		sender: newCaptureSender(),
		rec:    evsvc.NewRecorder(),
	}
	f.engine = NewEngine(f.repo, NewMatcher(f.repo), NewResolver(f.dir, f.pos), f.dir, f.sender, settings, Options{Timeout: time.Second, Concurrency: 4})
	f.engine.SetPublisher(f.rec)
	return f
}

func TestFire_EndToEndSignup(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.repo.put(domain.Workflow{
		OrganizationID: f.org,
		Name:           "Notify treasurer",
		TriggerEvent:   domain.TriggerSignup,
		Recipient:      domain.EmailRecipient{Email: "treasurer@org.test"},
		EmailSubject:   "New signup: {{first_name}} {{last_name}}",
		EmailTemplate:  "{{first_name}} joined as {{membership_type}}.",
		IsActive:       true,
	})

	report := f.engine.Fire(context.Background(), f.org, domain.Trigger{
		Event:     domain.TriggerSignup,
		Variables: domain.Variables{"first_name": "Ana", "last_name": "Lee", "membership_type": "Adult"},
	})
	require.NoError(t, report.Err)
	assert.Equal(t, 1, report.Matched())
	assert.Equal(t, 1, report.Delivered())
	assert.Zero(t, report.Failed())

	sent := f.sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "treasurer@org.test", sent[0].to)
	assert.Equal(t, "New signup: Ana Lee", sent[0].subject)
	assert.Equal(t, "Ana joined as Adult.", sent[0].body)
	assert.Equal(t, f.org, sent[0].orgID)
}

func TestFire_RenewalSkipsSignupOnly(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.repo.put(domain.Workflow{
		OrganizationID: f.org, TriggerEvent: domain.TriggerSignup, IsActive: true,
		Recipient: domain.EmailRecipient{Email: "a@org.test"}, EmailSubject: "s", EmailTemplate: "b",
	})
	report := f.engine.Fire(context.Background(), f.org, domain.Trigger{Event: domain.TriggerRenewal})
	assert.Zero(t, report.Matched())
	assert.Empty(t, f.sender.messages())
}

func TestFire_MemberVariablesExplicitWins(t *testing.T) {
	f := newEngineFixture(t, nil)
	memberID := uuid.New()
	f.dir.members[memberID] = domain.MemberProfile{ID: memberID, FirstName: "Ana", LastName: "Lee", Email: "ana@org.test", MembershipType: "Family"}
	f.repo.put(domain.Workflow{
		OrganizationID: f.org, TriggerEvent: domain.TriggerBoth, IsActive: true,
		Recipient:    domain.EmailRecipient{Email: "sec@org.test"},
		EmailSubject: "{{first_name}} {{last_name}} renewed", EmailTemplate: "{{membership_type}} {{email}} {{unknown_var}}",
	})

	f.engine.Fire(context.Background(), f.org, domain.Trigger{
		Event:     domain.TriggerRenewal,
		MemberID:  &memberID,
		Variables: domain.Variables{"membership_type": "Adult"},
	})
	sent := f.sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Ana Lee renewed", sent[0].subject)
	assert.Equal(t, "Adult ana@org.test {{unknown_var}}", sent[0].body)
}

func TestFire_IsolatesFailures(t *testing.T) {
	f := newEngineFixture(t, nil)
	pid := uuid.New()
	f.pos.items[pid] = position{orgID: f.org, name: "Treasurer", active: true}

	unresolved := f.repo.put(domain.Workflow{
		OrganizationID: f.org, Name: "empty position", TriggerEvent: domain.TriggerSignup, IsActive: true,
		Recipient: domain.PositionRecipient{PositionID: pid}, EmailSubject: "s", EmailTemplate: "b",
	})
	broadcast := f.repo.put(domain.Workflow{
		OrganizationID: f.org, Name: "everyone", TriggerEvent: domain.TriggerSignup, IsActive: true,
		Recipient: domain.AllMembersRecipient{}, EmailSubject: "Welcome {{first_name}}", EmailTemplate: "b",
	})
	f.dir.active = []domain.Address{{Email: "a@org.test"}, {Email: "broken@org.test"}, {Email: "c@org.test"}}
	f.sender.fail["broken@org.test"] = errors.New("550 mailbox unavailable")

	report := f.engine.Fire(context.Background(), f.org, domain.Trigger{
		Event:     domain.TriggerSignup,
		Variables: domain.Variables{"first_name": "Ana"},
	})
	require.NoError(t, report.Err)
	require.Equal(t, 2, report.Matched())
	assert.Equal(t, 2, report.Delivered())
	assert.Equal(t, 2, report.Failed())

	byID := map[uuid.UUID]domain.Outcome{}
	for _, o := range report.Outcomes {
		byID[o.WorkflowID] = o
	}
	var ure *domain.UnresolvedRecipientError
	assert.ErrorAs(t, byID[unresolved.ID].Err, &ure)

	b := byID[broadcast.ID]
	assert.NoError(t, b.Err)
	assert.Equal(t, 3, b.Recipients)
	assert.Equal(t, 2, b.Delivered)
	require.Len(t, b.Failures, 1)
	var de *domain.DeliveryError
	require.ErrorAs(t, b.Failures[0], &de)
	assert.Equal(t, "broken@org.test", de.To)

	sent := f.sender.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "Welcome Ana", sent[0].subject)
	assert.ElementsMatch(t, []string{"workflow.recipient.unresolved", "workflow.delivery.failed"}, f.rec.Types())
}

func TestFire_DeliveryTimeoutFromSettings(t *testing.T) {
	f := newEngineFixture(t, fakeSettings{durations: map[string]time.Duration{
		sdomain.KeyWorkflowDeliveryTimeout: 50 * time.Millisecond,
	}})
	defer close(f.sender.release)
	f.sender.hang["slow@org.test"] = true
	f.repo.put(domain.Workflow{
		OrganizationID: f.org, TriggerEvent: domain.TriggerSignup, IsActive: true,
		Recipient: domain.AllMembersRecipient{}, EmailSubject: "s", EmailTemplate: "b",
	})
	f.dir.active = []domain.Address{{Email: "slow@org.test"}, {Email: "fast@org.test"}}

	start := time.Now()
	report := f.engine.Fire(context.Background(), f.org, domain.Trigger{Event: domain.TriggerSignup})
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, report.Outcomes, 1)
	o := report.Outcomes[0]
	assert.Equal(t, 1, o.Delivered)
	require.Len(t, o.Failures, 1)
	assert.ErrorIs(t, o.Failures[0], context.DeadlineExceeded)
}

func TestFire_MatchFailureRecordedNotReturned(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.repo.err = errors.New("db down")
	report := f.engine.Fire(context.Background(), f.org, domain.Trigger{Event: domain.TriggerSignup})
	var se *domain.StoreError
	assert.ErrorAs(t, report.Err, &se)
	assert.Zero(t, report.Matched())
}

func TestSendTest(t *testing.T) {
	f := newEngineFixture(t, nil)
	pid := uuid.New()
	w := f.repo.put(domain.Workflow{
		OrganizationID: f.org, TriggerEvent: domain.TriggerSignup, IsActive: false,
		Recipient:    domain.PositionRecipient{PositionID: pid},
		EmailSubject: "Hello {{first_name}} {{last_name}}", EmailTemplate: "Type: {{membership_type}}",
	})
	cred := domain.Credential{OperatorID: uuid.New(), OrganizationID: f.org, Token: "tok"}

	err := f.engine.SendTest(context.Background(), cred, domain.TestSendRequest{
		WorkflowID: w.ID,
		TestEmail:  "operator@org.test",
		TestData:   domain.Variables{"first_name": "Ana"},
	})
	require.NoError(t, err)
	sent := f.sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "operator@org.test", sent[0].to)
	assert.Equal(t, "Hello Ana Doe", sent[0].subject)
	assert.Equal(t, "Type: Adult", sent[0].body)
	assert.Equal(t, []string{"workflow.test_sent"}, f.rec.Types())
}

func TestSendTest_Errors(t *testing.T) {
	f := newEngineFixture(t, nil)
	w := f.repo.put(domain.Workflow{
		OrganizationID: f.org, TriggerEvent: domain.TriggerSignup, IsActive: true,
		Recipient: domain.EmailRecipient{Email: "t@org.test"}, EmailSubject: "s", EmailTemplate: "b",
	})
	req := domain.TestSendRequest{WorkflowID: w.ID, TestEmail: "op@org.test"}

	t.Run("no credential", func(t *testing.T) {
		err := f.engine.SendTest(context.Background(), domain.Credential{OrganizationID: f.org}, req)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
	t.Run("invalid email", func(t *testing.T) {
		bad := req
		bad.TestEmail = "nope"
		err := f.engine.SendTest(context.Background(), domain.Credential{OrganizationID: f.org, Token: "t"}, bad)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
	t.Run("other organization", func(t *testing.T) {
		err := f.engine.SendTest(context.Background(), domain.Credential{OrganizationID: uuid.New(), Token: "t"}, req)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("transport failure", func(t *testing.T) {
		f.sender.fail["op@org.test"] = errors.New("connection refused")
		err := f.engine.SendTest(context.Background(), domain.Credential{OrganizationID: f.org, Token: "t"}, req)
		var de *domain.DeliveryError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "op@org.test", de.To)
	})
	assert.Empty(t, f.sender.messages())
}
