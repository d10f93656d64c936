package members

import (
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/wjlander/choo/internal/members/domain"
	repo "github.com/wjlander/choo/internal/members/repository"
	svc "github.com/wjlander/choo/internal/members/service"
)

// NewService builds the member directory on Postgres.
func NewService(pg *pgxpool.Pool) domain.Service {
	return svc.New(repo.New(pg))
}
