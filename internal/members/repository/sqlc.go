package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/wjlander/choo/internal/db/sqlc"
	domain "github.com/wjlander/choo/internal/members/domain"
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

func fromModel(m db.Member) domain.Member {
	return domain.Member{
		ID:             uuid.UUID(m.ID.Bytes),
		OrganizationID: uuid.UUID(m.OrganizationID.Bytes),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		MembershipType: m.MembershipType,
		Status:         m.Status,
	}
}

func (r *SQLCRepository) Get(ctx context.Context, orgID, id uuid.UUID) (domain.Member, error) {
	m, err := r.q.GetMemberByID(ctx, db.GetMemberByIDParams{ID: toPgUUID(id), OrganizationID: toPgUUID(orgID)})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Member{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Member{}, err
	}
	return fromModel(m), nil
}

func (r *SQLCRepository) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	row, err := r.q.CreateMember(ctx, db.CreateMemberParams{
		ID:             toPgUUID(m.ID),
		OrganizationID: toPgUUID(m.OrganizationID),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		MembershipType: m.MembershipType,
		Status:         m.Status,
	})
	if err != nil {
		return domain.Member{}, err
	}
	return fromModel(row), nil
}

func (r *SQLCRepository) ListActiveContacts(ctx context.Context, orgID uuid.UUID) ([]domain.Contact, error) {
	rows, err := r.q.ListActiveMemberRecipients(ctx, toPgUUID(orgID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Contact(row))
	}
	return out, nil
}

func (r *SQLCRepository) ListPositionHolders(ctx context.Context, orgID, positionID uuid.UUID) ([]domain.Contact, error) {
	rows, err := r.q.ListPositionHolderRecipients(ctx, db.ListPositionHolderRecipientsParams{
		OrganizationID: toPgUUID(orgID),
		PositionID:     toPgUUID(positionID),
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Contact(row))
	}
	return out, nil
}
