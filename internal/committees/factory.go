package committees

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	ctrl "github.com/wjlander/choo/internal/committees/controller"
	domain "github.com/wjlander/choo/internal/committees/domain"
	repo "github.com/wjlander/choo/internal/committees/repository"
	svc "github.com/wjlander/choo/internal/committees/service"
	"github.com/wjlander/choo/internal/config"
)

// NewService builds the committee service on Postgres.
func NewService(pg *pgxpool.Pool) domain.Service {
	return svc.New(repo.New(pg))
}

// Register wires the committees module and registers HTTP routes.
func Register(e *echo.Echo, pg *pgxpool.Pool, cfg config.Config) {
	c := ctrl.New(NewService(pg)).WithJWT(amw.NewJWT(cfg))
	c.Register(e)
}
