package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/wjlander/choo/internal/committees"
	"github.com/wjlander/choo/internal/config"
	"github.com/wjlander/choo/internal/members"
	"github.com/wjlander/choo/internal/organizations"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
	srepo "github.com/wjlander/choo/internal/settings/repository"
	"github.com/wjlander/choo/internal/workflows"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fatalf("load config: %v", err)
	}
	pgCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		fatalf("invalid DATABASE_URL: %v", err)
	}
	pgPool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		fatalf("pg pool: %v", err)
	}
	defer pgPool.Close()

	// Wire services we need
	deps := seeder{
		orgs:       organizations.NewService(pgPool),
		members:    members.NewService(pgPool),
		committees: committees.NewService(pgPool),
		workflows:  workflows.New(pgPool, cfg).Service,
	}
	settingsRepo := srepo.New(pgPool)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "organization":
		fs := flag.NewFlagSet("organization", flag.ExitOnError)
		name := fs.String("name", envOr("ORG_NAME", "Test Club"), "organization name")
		contact := fs.String("contact-email", envOr("ORG_CONTACT_EMAIL", ""), "organization contact email")
		_ = fs.Parse(os.Args[2:])
		org, err := deps.ensureOrganization(ctx, *name, *contact)
		if err != nil {
			fatalf("organization: %v", err)
		}
		printEnv(map[string]string{"ORG_ID": org.String()})
	case "member":
		fs := flag.NewFlagSet("member", flag.ExitOnError)
		orgIDStr := fs.String("org-id", os.Getenv("ORG_ID"), "organization UUID")
		email := fs.String("email", os.Getenv("EMAIL"), "member email")
		first := fs.String("first", envOr("FIRST_NAME", "Test"), "first name")
		last := fs.String("last", envOr("LAST_NAME", "Member"), "last name")
		mtype := fs.String("membership-type", envOr("MEMBERSHIP_TYPE", "Adult"), "membership type")
		position := fs.String("position", os.Getenv("POSITION"), "committee position to hold (created if missing)")
		_ = fs.Parse(os.Args[2:])

		orgID, err := uuid.Parse(strings.TrimSpace(*orgIDStr))
		if err != nil {
			fatalf("invalid org-id: %v", err)
		}
		if strings.TrimSpace(*email) == "" {
			fatalf("email is required")
		}
		memberID, err := deps.addMember(ctx, orgID, *first, *last, *email, *mtype)
		if err != nil {
			fatalf("member create: %v", err)
		}
		out := map[string]string{"ORG_ID": orgID.String(), "MEMBER_ID": memberID.String(), "EMAIL": *email}
		if p := strings.TrimSpace(*position); p != "" {
			posID, err := deps.holdPosition(ctx, orgID, memberID, p)
			if err != nil {
				fatalf("assign position: %v", err)
			}
			out["POSITION_ID"] = posID.String()
		}
		printEnv(out)
	case "smtp":
		fs := flag.NewFlagSet("smtp", flag.ExitOnError)
		orgIDStr := fs.String("org-id", os.Getenv("ORG_ID"), "organization UUID")
		host := fs.String("host", envOr("SMTP_HOST", "localhost"), "SMTP host")
		port := fs.String("port", envOr("SMTP_PORT", "1025"), "SMTP port")
		from := fs.String("from", envOr("SMTP_FROM", "no-reply@local.dev"), "From address")
		_ = fs.Parse(os.Args[2:])
		orgID, err := uuid.Parse(strings.TrimSpace(*orgIDStr))
		if err != nil {
			fatalf("invalid org-id: %v", err)
		}
		for k, v := range map[string]string{
			sdomain.KeyEmailProvider: "smtp",
			sdomain.KeySMTPHost:      *host,
			sdomain.KeySMTPPort:      *port,
			sdomain.KeySMTPFrom:      *from,
		} {
			if err := settingsRepo.Upsert(ctx, k, &orgID, strings.TrimSpace(v), false); err != nil {
				fatalf("upsert %s: %v", k, err)
			}
		}
		printEnv(map[string]string{"ORG_ID": orgID.String(), "EMAIL_PROVIDER": "smtp"})
		stderr("SMTP delivery configured for organization %s", orgID)
	case "default":
		fs := flag.NewFlagSet("default", flag.ExitOnError)
		name := fs.String("org-name", envOr("ORG_NAME", "Test Club"), "organization name to create or reuse")
		treasurer := fs.String("treasurer-email", envOr("TREASURER_EMAIL", "treasurer@example.com"), "treasurer email")
		_ = fs.Parse(os.Args[2:])

		out, err := deps.seedDefault(ctx, *name, *treasurer)
		if err != nil {
			fatalf("seed default: %v", err)
		}
		printEnv(out)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  seed organization --name <name> [--contact-email office@club.example]
  seed member --org-id <uuid> --email <email> [--first First] [--last Last] [--membership-type Adult] [--position Treasurer]
  seed smtp --org-id <uuid> [--host localhost] [--port 1025] [--from no-reply@local.dev]
  seed default [--org-name "Test Club"] [--treasurer-email treasurer@example.com]

Environment fallbacks:
  ORG_NAME, ORG_CONTACT_EMAIL, ORG_ID, EMAIL, FIRST_NAME, LAST_NAME, MEMBERSHIP_TYPE, POSITION,
  SMTP_HOST, SMTP_PORT, SMTP_FROM, TREASURER_EMAIL
`)
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func printEnv(kv map[string]string) {
	// KEY=VALUE lines so callers can tee into a .env file and `source` it.
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, kv[k])
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func stderr(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
}
