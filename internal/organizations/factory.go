package organizations

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	"github.com/wjlander/choo/internal/config"
	ctrl "github.com/wjlander/choo/internal/organizations/controller"
	domain "github.com/wjlander/choo/internal/organizations/domain"
	repo "github.com/wjlander/choo/internal/organizations/repository"
	svc "github.com/wjlander/choo/internal/organizations/service"
)

// NewService builds the organization service on Postgres.
func NewService(pg *pgxpool.Pool) domain.Service {
	return svc.New(repo.New(pg))
}

// Register wires the organizations module and registers HTTP routes.
func Register(e *echo.Echo, pg *pgxpool.Pool, cfg config.Config) {
	c := ctrl.New(NewService(pg)).WithJWT(amw.NewJWT(cfg))
	c.Register(e)
}
