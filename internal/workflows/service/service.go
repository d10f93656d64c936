package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	evdomain "github.com/wjlander/choo/internal/events/domain"
	evsvc "github.com/wjlander/choo/internal/events/service"
	domain "github.com/wjlander/choo/internal/workflows/domain"
)

var _ domain.Service = (*Service)(nil)

// Service implements the operator lifecycle of workflows:
// create, update, toggle and delete.
type Service struct {
	repo      domain.Repository
	positions domain.PositionLookup
	pub       evdomain.Publisher
	log       zerolog.Logger
	now       func() time.Time
}

func New(repo domain.Repository, positions domain.PositionLookup) *Service {
	return &Service{repo: repo, positions: positions, pub: evsvc.NewLogger(), log: zerolog.Nop(), now: time.Now}
}

// SetPublisher allows tests or callers to override the event publisher.
func (s *Service) SetPublisher(p evdomain.Publisher) { s.pub = p }

// SetLogger allows injection of a structured logger.
func (s *Service) SetLogger(l zerolog.Logger) { s.log = l }

func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]domain.Workflow, error) {
	items, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, domain.WrapStore("list workflows", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (domain.Workflow, error) {
	w, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return domain.Workflow{}, domain.WrapStore("get workflow", err)
	}
	return w, nil
}

func (s *Service) Create(ctx context.Context, orgID, actorID uuid.UUID, in domain.WorkflowInput) (domain.Workflow, error) {
	in.Normalize()
	if err := s.validate(ctx, orgID, in); err != nil {
		return domain.Workflow{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	w := domain.Workflow{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           in.Name,
		Description:    in.Description,
		TriggerEvent:   in.TriggerEvent,
		Conditions:     in.Conditions,
		Recipient:      in.Recipient,
		EmailSubject:   in.EmailSubject,
		EmailTemplate:  in.EmailTemplate,
		IsActive:       active,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return domain.Workflow{}, domain.WrapStore("create workflow", err)
	}
	stored := s.reread(ctx, w)
	s.publish(ctx, "workflow.created", stored, actorID)
	return stored, nil
}

// Update replaces every operator-editable field. Concurrent updates are last write wins.
func (s *Service) Update(ctx context.Context, orgID, actorID, id uuid.UUID, in domain.WorkflowInput) (domain.Workflow, error) {
	in.Normalize()
	if err := s.validate(ctx, orgID, in); err != nil {
		return domain.Workflow{}, err
	}
	cur, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return domain.Workflow{}, domain.WrapStore("get workflow", err)
	}
	cur.Name = in.Name
	cur.Description = in.Description
	cur.TriggerEvent = in.TriggerEvent
	cur.Conditions = in.Conditions
	cur.Recipient = in.Recipient
	cur.EmailSubject = in.EmailSubject
	cur.EmailTemplate = in.EmailTemplate
	if in.IsActive != nil {
		cur.IsActive = *in.IsActive
	}
	if err := s.repo.Update(ctx, cur); err != nil {
		return domain.Workflow{}, domain.WrapStore("update workflow", err)
	}
	stored := s.reread(ctx, cur)
	s.publish(ctx, "workflow.updated", stored, actorID)
	return stored, nil
}

// reread fetches w after a successful write to pick up store-assigned
// timestamps. The write has already happened, so a failed read returns w
// stamped with the local clock instead of an error.
func (s *Service) reread(ctx context.Context, w domain.Workflow) domain.Workflow {
	stored, err := s.repo.Get(ctx, w.OrganizationID, w.ID)
	if err == nil {
		return stored
	}
	s.log.Warn().Err(err).Str("workflow_id", w.ID.String()).Msg("re-read after write failed")
	now := s.now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	return w
}

// Toggle reads the stored state and writes its opposite.
func (s *Service) Toggle(ctx context.Context, orgID, actorID, id uuid.UUID) (domain.Workflow, error) {
	w, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return domain.Workflow{}, domain.WrapStore("get workflow", err)
	}
	next := !w.IsActive
	if err := s.repo.SetActive(ctx, orgID, id, next); err != nil {
		return domain.Workflow{}, domain.WrapStore("toggle workflow", err)
	}
	w.IsActive = next
	w.UpdatedAt = s.now()
	typ := "workflow.disabled"
	if next {
		typ = "workflow.enabled"
	}
	s.publish(ctx, typ, w, actorID)
	return w, nil
}

// Delete removes the workflow permanently. Deleting an id that no longer
// exists returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, orgID, actorID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return domain.WrapStore("delete workflow", err)
	}
	s.publish(ctx, "workflow.deleted", domain.Workflow{ID: id, OrganizationID: orgID}, actorID)
	return nil
}

func (s *Service) publish(ctx context.Context, typ string, w domain.Workflow, actorID uuid.UUID) {
	meta := map[string]string{"workflow_id": w.ID.String()}
	if w.Name != "" {
		meta["name"] = w.Name
	}
	if w.Recipient != nil {
		meta["recipient_type"] = string(w.Recipient.Type())
	}
	_ = s.pub.Publish(ctx, evdomain.Event{
		Type:           typ,
		OrganizationID: w.OrganizationID,
		ActorID:        actorID,
		Meta:           meta,
		Time:           s.now(),
	})
	s.log.Info().Str("type", typ).Str("workflow_id", w.ID.String()).Str("organization_id", w.OrganizationID.String()).Msg("workflow lifecycle")
}
