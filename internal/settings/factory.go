package settings

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	"github.com/wjlander/choo/internal/config"
	evsvc "github.com/wjlander/choo/internal/events/service"
	rl "github.com/wjlander/choo/internal/platform/ratelimit"
	ctrl "github.com/wjlander/choo/internal/settings/controller"
	repo "github.com/wjlander/choo/internal/settings/repository"
	svc "github.com/wjlander/choo/internal/settings/service"
)

// Register wires the settings module and registers HTTP routes.
func Register(e *echo.Echo, pg *pgxpool.Pool, cfg config.Config) {
	r := repo.New(pg)
	s := svc.New(r)
	c := ctrl.New(r, s)

	c.WithJWT(amw.NewJWT(cfg)).WithRateLimit(rl.NewRedisStore(cfg)).WithPublisher(evsvc.NewLogger())
	c.Register(e)
}
