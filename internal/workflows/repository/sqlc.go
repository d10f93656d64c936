package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/wjlander/choo/internal/db/sqlc"
	domain "github.com/wjlander/choo/internal/workflows/domain"
)

var _ domain.Repository = (*SQLCRepository)(nil)

type SQLCRepository struct {
	q *db.Queries
}

func New(pg *pgxpool.Pool) *SQLCRepository {
	return &SQLCRepository{q: db.New(pg)}
}

// encodeConditions stores a workflow without conditions as {}.
func encodeConditions(c domain.Conditions) ([]byte, error) {
	if c.IsEmpty() {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

func toPgUUID(u uuid.UUID) pgtype.UUID {
	if u == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: u, Valid: true}
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// workflowRow is the shape shared by every workflow select.
type workflowRow = db.GetEmailWorkflowRow

func (r *SQLCRepository) List(ctx context.Context, orgID uuid.UUID) ([]domain.Workflow, error) {
	rows, err := r.q.ListEmailWorkflowsByOrganization(ctx, toPgUUID(orgID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Workflow, 0, len(rows))
	for _, row := range rows {
		w, err := fromRow(workflowRow(row))
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *SQLCRepository) Get(ctx context.Context, orgID, id uuid.UUID) (domain.Workflow, error) {
	row, err := r.q.GetEmailWorkflow(ctx, db.GetEmailWorkflowParams{ID: toPgUUID(id), OrganizationID: toPgUUID(orgID)})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Workflow{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Workflow{}, err
	}
	return fromRow(row)
}

func (r *SQLCRepository) ListActiveForEvent(ctx context.Context, orgID uuid.UUID, event domain.TriggerEvent) ([]domain.Workflow, error) {
	rows, err := r.q.ListActiveEmailWorkflowsForEvent(ctx, db.ListActiveEmailWorkflowsForEventParams{
		OrganizationID: toPgUUID(orgID),
		TriggerEvent:   string(event),
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Workflow, 0, len(rows))
	for _, row := range rows {
		w, err := fromRow(workflowRow(row))
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *SQLCRepository) Create(ctx context.Context, w domain.Workflow) error {
	cond, err := encodeConditions(w.Conditions)
	if err != nil {
		return err
	}
	rf := domain.Flatten(w.Recipient)
	return r.q.CreateEmailWorkflow(ctx, db.CreateEmailWorkflowParams{
		ID:                  toPgUUID(w.ID),
		OrganizationID:      toPgUUID(w.OrganizationID),
		Name:                w.Name,
		Description:         toPgText(w.Description),
		TriggerEvent:        string(w.TriggerEvent),
		Conditions:          cond,
		RecipientType:       string(rf.Type),
		RecipientEmail:      toPgText(rf.Email),
		RecipientName:       toPgText(rf.Name),
		RecipientPositionID: toPgUUID(rf.PositionID),
		EmailSubject:        w.EmailSubject,
		EmailTemplate:       w.EmailTemplate,
		IsActive:            w.IsActive,
	})
}

func (r *SQLCRepository) Update(ctx context.Context, w domain.Workflow) error {
	cond, err := encodeConditions(w.Conditions)
	if err != nil {
		return err
	}
	rf := domain.Flatten(w.Recipient)
	n, err := r.q.UpdateEmailWorkflow(ctx, db.UpdateEmailWorkflowParams{
		ID:                  toPgUUID(w.ID),
		OrganizationID:      toPgUUID(w.OrganizationID),
		Name:                w.Name,
		Description:         toPgText(w.Description),
		TriggerEvent:        string(w.TriggerEvent),
		Conditions:          cond,
		RecipientType:       string(rf.Type),
		RecipientEmail:      toPgText(rf.Email),
		RecipientName:       toPgText(rf.Name),
		RecipientPositionID: toPgUUID(rf.PositionID),
		EmailSubject:        w.EmailSubject,
		EmailTemplate:       w.EmailTemplate,
		IsActive:            w.IsActive,
	})
	return affected(n, err)
}

func (r *SQLCRepository) SetActive(ctx context.Context, orgID, id uuid.UUID, active bool) error {
	n, err := r.q.SetEmailWorkflowActive(ctx, db.SetEmailWorkflowActiveParams{
		ID:             toPgUUID(id),
		OrganizationID: toPgUUID(orgID),
		IsActive:       active,
	})
	return affected(n, err)
}

func (r *SQLCRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	n, err := r.q.DeleteEmailWorkflow(ctx, db.DeleteEmailWorkflowParams{ID: toPgUUID(id), OrganizationID: toPgUUID(orgID)})
	return affected(n, err)
}

func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func fromRow(row workflowRow) (domain.Workflow, error) {
	w := domain.Workflow{
		ID:             uuid.UUID(row.ID.Bytes),
		OrganizationID: uuid.UUID(row.OrganizationID.Bytes),
		Name:           row.Name,
		Description:    row.Description.String,
		TriggerEvent:   domain.TriggerEvent(row.TriggerEvent),
		EmailSubject:   row.EmailSubject,
		EmailTemplate:  row.EmailTemplate,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
	if len(row.Conditions) > 0 {
		if err := json.Unmarshal(row.Conditions, &w.Conditions); err != nil {
			return domain.Workflow{}, fmt.Errorf("workflow %s: decode conditions: %w", w.ID, err)
		}
	}
	rf := domain.RecipientFields{
		Type:  domain.RecipientType(row.RecipientType),
		Email: row.RecipientEmail.String,
		Name:  row.RecipientName.String,
	}
	if row.RecipientPositionID.Valid {
		rf.PositionID = uuid.UUID(row.RecipientPositionID.Bytes)
	}
	rec, ok := domain.NewRecipient(rf)
	if !ok {
		return domain.Workflow{}, fmt.Errorf("workflow %s: unknown recipient type %q", w.ID, row.RecipientType)
	}
	if p, isPos := rec.(domain.PositionRecipient); isPos {
		p.PositionName = row.PositionName.String
		rec = p
	}
	w.Recipient = rec
	return w, nil
}
