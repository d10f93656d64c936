package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	cdomain "github.com/wjlander/choo/internal/committees/domain"
	mdomain "github.com/wjlander/choo/internal/members/domain"
	odomain "github.com/wjlander/choo/internal/organizations/domain"
	osvc "github.com/wjlander/choo/internal/organizations/service"
	wdomain "github.com/wjlander/choo/internal/workflows/domain"
)

// workflowCreator is the slice of the workflow service the seeder needs.
type workflowCreator interface {
	List(ctx context.Context, orgID uuid.UUID) ([]wdomain.Workflow, error)
	Create(ctx context.Context, orgID, actorID uuid.UUID, in wdomain.WorkflowInput) (wdomain.Workflow, error)
}

var errNameRequired = errors.New("organization name required")

type seeder struct {
	orgs       odomain.Service
	members    mdomain.Service
	committees cdomain.Service
	workflows  workflowCreator
}

func (s seeder) ensureOrganization(ctx context.Context, name, contact string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, errNameRequired
	}
	slug := osvc.Slugify(name)
	if o, err := s.orgs.GetBySlug(ctx, slug); err == nil {
		return o.ID, nil
	} else if !errors.Is(err, odomain.ErrNotFound) {
		return uuid.Nil, err
	}
	if strings.TrimSpace(contact) == "" {
		contact = "office@" + slug + ".example"
	}
	o, err := s.orgs.Create(ctx, name, slug, contact)
	if err != nil {
		return uuid.Nil, err
	}
	return o.ID, nil
}

func (s seeder) addMember(ctx context.Context, orgID uuid.UUID, first, last, email, membershipType string) (uuid.UUID, error) {
	m, err := s.members.Create(ctx, mdomain.Member{
		OrganizationID: orgID,
		FirstName:      first,
		LastName:       last,
		Email:          email,
		MembershipType: membershipType,
		Status:         mdomain.StatusActive,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

// holdPosition assigns memberID to the named position on the organization's
// main committee, creating both when absent. The assignment is open ended.
func (s seeder) holdPosition(ctx context.Context, orgID, memberID uuid.UUID, position string) (uuid.UUID, error) {
	positions, err := s.committees.ListActivePositions(ctx, orgID)
	if err != nil {
		return uuid.Nil, err
	}
	var posID uuid.UUID
	for _, p := range positions {
		if strings.EqualFold(p.Name, position) {
			posID = p.ID
			break
		}
	}
	if posID == uuid.Nil {
		p, err := s.committees.CreatePosition(ctx, orgID, position, "", len(positions))
		if err != nil {
			return uuid.Nil, err
		}
		posID = p.ID
	}
	committeeID, err := s.committees.CreateCommittee(ctx, orgID, "Main Committee")
	if err != nil {
		return uuid.Nil, err
	}
	err = s.committees.Assign(ctx, cdomain.Assignment{
		CommitteeID: committeeID,
		MemberID:    memberID,
		PositionID:  &posID,
		StartDate:   time.Now().UTC().Truncate(24 * time.Hour),
	})
	return posID, err
}

// seedDefault provisions an organization with a treasurer and the two
// example workflows: a fixed-address signup notice and a renewal notice to
// whoever holds the treasurer position.
func (s seeder) seedDefault(ctx context.Context, orgName, treasurerEmail string) (map[string]string, error) {
	orgID, err := s.ensureOrganization(ctx, orgName, "")
	if err != nil {
		return nil, err
	}
	memberID, err := s.addMember(ctx, orgID, "Terry", "Treasurer", treasurerEmail, "Committee")
	if err != nil {
		return nil, err
	}
	posID, err := s.holdPosition(ctx, orgID, memberID, "Treasurer")
	if err != nil {
		return nil, err
	}

	existing, err := s.workflows.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	have := map[string]bool{}
	for _, w := range existing {
		have[w.Name] = true
	}
	defs := []wdomain.WorkflowInput{
		{
			Name:          "New signup notice",
			Description:   "Tell the treasurer about every new member",
			TriggerEvent:  wdomain.TriggerSignup,
			Recipient:     wdomain.EmailRecipient{Email: treasurerEmail},
			EmailSubject:  "New signup: {{first_name}} {{last_name}}",
			EmailTemplate: "{{first_name}} joined as {{membership_type}}.",
		},
		{
			Name:          "Renewal notice",
			TriggerEvent:  wdomain.TriggerRenewal,
			Recipient:     wdomain.PositionRecipient{PositionID: posID},
			EmailSubject:  "Renewal: {{first_name}} {{last_name}}",
			EmailTemplate: "{{first_name}} {{last_name}} renewed their {{membership_type}} membership.",
		},
	}
	out := map[string]string{
		"ORG_ID":       orgID.String(),
		"TREASURER_ID": memberID.String(),
		"POSITION_ID":  posID.String(),
	}
	created := 0
	for _, in := range defs {
		if have[in.Name] {
			continue
		}
		if _, err := s.workflows.Create(ctx, orgID, uuid.Nil, in); err != nil {
			return nil, err
		}
		created++
	}
	stderr("seeded organization %s with %d new workflow(s)", orgID, created)
	return out, nil
}
