package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/wjlander/choo/internal/committees/domain"
	db "github.com/wjlander/choo/internal/db/sqlc"
)

type SQLCRepository struct {
	q *db.Queries
}

func New(pg *pgxpool.Pool) *SQLCRepository {
	return &SQLCRepository{q: db.New(pg)}
}

func toPgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func toPgUUIDPtr(u *uuid.UUID) pgtype.UUID {
	if u == nil {
		return pgtype.UUID{}
	}
	return toPgUUID(*u)
}

func toPgDatePtr(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func fromModel(p db.CommitteePosition) domain.Position {
	return domain.Position{
		ID:             uuid.UUID(p.ID.Bytes),
		OrganizationID: uuid.UUID(p.OrganizationID.Bytes),
		Name:           p.Name,
		Description:    p.Description.String,
		IsActive:       p.IsActive,
		DisplayOrder:   int(p.DisplayOrder),
		CreatedAt:      p.CreatedAt.Time,
	}
}

func (r *SQLCRepository) ListActivePositions(ctx context.Context, orgID uuid.UUID) ([]domain.Position, error) {
	rows, err := r.q.ListActiveCommitteePositions(ctx, toPgUUID(orgID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Position, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (r *SQLCRepository) GetPosition(ctx context.Context, orgID, id uuid.UUID) (domain.Position, error) {
	row, err := r.q.GetCommitteePosition(ctx, db.GetCommitteePositionParams{ID: toPgUUID(id), OrganizationID: toPgUUID(orgID)})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Position{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Position{}, err
	}
	return fromModel(row), nil
}

func (r *SQLCRepository) CreatePosition(ctx context.Context, p domain.Position) (domain.Position, error) {
	desc := pgtype.Text{String: p.Description, Valid: p.Description != ""}
	row, err := r.q.CreateCommitteePosition(ctx, db.CreateCommitteePositionParams{
		ID:             toPgUUID(p.ID),
		OrganizationID: toPgUUID(p.OrganizationID),
		Name:           p.Name,
		Description:    desc,
		DisplayOrder:   int32(p.DisplayOrder),
	})
	if err != nil {
		return domain.Position{}, err
	}
	return fromModel(row), nil
}

func (r *SQLCRepository) CreateCommittee(ctx context.Context, id, orgID uuid.UUID, name string) error {
	_, err := r.q.CreateCommittee(ctx, db.CreateCommitteeParams{ID: toPgUUID(id), OrganizationID: toPgUUID(orgID), Name: name})
	return err
}

func (r *SQLCRepository) Assign(ctx context.Context, a domain.Assignment) error {
	start := a.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	return r.q.AssignCommitteeMember(ctx, db.AssignCommitteeMemberParams{
		ID:          toPgUUID(uuid.New()),
		CommitteeID: toPgUUID(a.CommitteeID),
		MemberID:    toPgUUID(a.MemberID),
		PositionID:  toPgUUIDPtr(a.PositionID),
		StartDate:   pgtype.Date{Time: start, Valid: true},
		EndDate:     toPgDatePtr(a.EndDate),
	})
}
