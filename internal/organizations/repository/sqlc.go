package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/wjlander/choo/internal/db/sqlc"
	domain "github.com/wjlander/choo/internal/organizations/domain"
)

var _ domain.Repository = (*SQLCRepository)(nil)

type SQLCRepository struct {
	q *db.Queries
}

func New(pg *pgxpool.Pool) *SQLCRepository {
	return &SQLCRepository{q: db.New(pg)}
}

func toPgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func fromRow(o db.Organization) domain.Organization {
	return domain.Organization{
		ID:           uuid.UUID(o.ID.Bytes),
		Name:         o.Name,
		Slug:         o.Slug,
		ContactEmail: o.ContactEmail,
		IsActive:     o.IsActive,
		CreatedAt:    o.CreatedAt.Time,
		UpdatedAt:    o.UpdatedAt.Time,
	}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *SQLCRepository) Create(ctx context.Context, o domain.Organization) error {
	err := r.q.CreateOrganization(ctx, db.CreateOrganizationParams{
		ID:           toPgUUID(o.ID),
		Name:         o.Name,
		Slug:         o.Slug,
		ContactEmail: o.ContactEmail,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicate
	}
	return err
}

func (r *SQLCRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Organization, error) {
	o, err := r.q.GetOrganizationByID(ctx, toPgUUID(id))
	if err != nil {
		return domain.Organization{}, notFound(err)
	}
	return fromRow(o), nil
}

func (r *SQLCRepository) GetBySlug(ctx context.Context, slug string) (domain.Organization, error) {
	o, err := r.q.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return domain.Organization{}, notFound(err)
	}
	return fromRow(o), nil
}

func (r *SQLCRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.q.DeactivateOrganization(ctx, toPgUUID(id))
}

func (r *SQLCRepository) List(ctx context.Context, query string, active int, limit, offset int32) ([]domain.Organization, int64, error) {
	rows, err := r.q.ListOrganizations(ctx, db.ListOrganizationsParams{
		Column1: query,
		Column2: int32(active),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := r.q.CountOrganizations(ctx, db.CountOrganizationsParams{
		Column1: query,
		Column2: int32(active),
	})
	if err != nil {
		return nil, 0, err
	}
	items := make([]domain.Organization, 0, len(rows))
	for _, o := range rows {
		items = append(items, fromRow(o))
	}
	return items, total, nil
}
