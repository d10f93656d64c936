package workflows

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	"github.com/wjlander/choo/internal/committees"
	"github.com/wjlander/choo/internal/config"
	esvc "github.com/wjlander/choo/internal/email/service"
	evsvc "github.com/wjlander/choo/internal/events/service"
	"github.com/wjlander/choo/internal/logger"
	"github.com/wjlander/choo/internal/members"
	rl "github.com/wjlander/choo/internal/platform/ratelimit"
	srepo "github.com/wjlander/choo/internal/settings/repository"
	ssvc "github.com/wjlander/choo/internal/settings/service"
	ctrl "github.com/wjlander/choo/internal/workflows/controller"
	repo "github.com/wjlander/choo/internal/workflows/repository"
	svc "github.com/wjlander/choo/internal/workflows/service"
)

// Module holds the wired workflow services. The API registers its routes;
// the CLI and seed tool call the services directly.
type Module struct {
	Service  *svc.Service
	Engine   *svc.Engine
	settings *ssvc.Service
}

// New wires repositories, the member directory, committees and the email
// router into the workflow services.
func New(pg *pgxpool.Pool, cfg config.Config) Module {
	r := repo.New(pg)
	settings := ssvc.New(srepo.New(pg))
	dir := directory{members: members.NewService(pg)}
	pos := positions{committees: committees.NewService(pg)}
	pub := evsvc.NewLogger()
	log := logger.WithLevel(logger.Module(cfg.AppEnv, "workflows"), cfg.LogLevel)

	s := svc.New(r, pos)
	s.SetPublisher(pub)
	s.SetLogger(log)

	eng := svc.NewEngine(r, svc.NewMatcher(r), svc.NewResolver(dir, pos), dir, esvc.NewRouter(settings, cfg), settings, svc.Options{
		Timeout:     cfg.DeliveryTimeout,
		Concurrency: cfg.DeliveryConcurrency,
	})
	eng.SetPublisher(pub)
	eng.SetLogger(log)
	return Module{Service: s, Engine: eng, settings: settings}
}

// Register wires the workflows module and registers HTTP routes.
func Register(e *echo.Echo, pg *pgxpool.Pool, cfg config.Config) {
	m := New(pg, cfg)
	c := ctrl.New(m.Service, m.Engine).
		WithJWT(amw.NewJWT(cfg)).
		WithRateLimit(rl.NewRedisStore(cfg)).
		WithSettings(m.settings).
		WithTestSendLimit(cfg.TestSendLimit, cfg.TestSendWindow)
	c.Register(e)
}
