package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	"github.com/wjlander/choo/internal/config"
	organizations "github.com/wjlander/choo/internal/organizations"
	odomain "github.com/wjlander/choo/internal/organizations/domain"
	osvc "github.com/wjlander/choo/internal/organizations/service"
)

type bootstrapResult struct {
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	OrganizationSlug string    `json:"organization_slug"`
	OperatorID       uuid.UUID `json:"operator_id"`
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expires_at"`
}

func main() {
	var (
		tokenTTL = flag.Duration("ttl", 15*time.Minute, "lifetime for the issued operator token")
		name     = flag.String("name", "", "organization name (default: bootstrap-<unix time>)")
		contact  = flag.String("contact-email", "", "organization contact email")
		output   = flag.String("output", "env", "output format: env or json")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("invalid DATABASE_URL: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	org, err := provisionOrganization(ctx, organizations.NewService(pool), *name, *contact)
	if err != nil {
		log.Fatalf("failed to provision organization: %v", err)
	}

	result, err := issue(cfg, org, *tokenTTL)
	if err != nil {
		log.Fatalf("failed to mint token: %v", err)
	}

	switch strings.ToLower(*output) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("failed to encode JSON: %v", err)
		}
	case "env":
		printEnv(os.Stdout, result)
	default:
		log.Fatalf("unsupported output format: %s", *output)
	}
}

// provisionOrganization reuses the organization whose slug matches name, or
// creates it.
func provisionOrganization(ctx context.Context, orgs odomain.Service, name, contact string) (odomain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("bootstrap-%d", time.Now().Unix())
	}
	slug := osvc.Slugify(name)
	if existing, err := orgs.GetBySlug(ctx, slug); err == nil {
		return existing, nil
	} else if !errors.Is(err, odomain.ErrNotFound) {
		return odomain.Organization{}, err
	}
	if contact == "" {
		contact = "office@" + slug + ".local"
	}
	return orgs.Create(ctx, name, slug, contact)
}

func issue(cfg config.Config, org odomain.Organization, ttl time.Duration) (bootstrapResult, error) {
	operator := uuid.New()
	tok, exp, err := amw.Sign(cfg, operator, org.ID, ttl)
	if err != nil {
		return bootstrapResult{}, err
	}
	return bootstrapResult{
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		OrganizationSlug: org.Slug,
		OperatorID:       operator,
		Token:            tok,
		ExpiresAt:        exp.UTC(),
	}, nil
}

func printEnv(w io.Writer, res bootstrapResult) {
	vars := map[string]string{
		"CHOO_API_TOKEN":        res.Token,
		"CHOO_ORGANIZATION_ID":  res.OrganizationID.String(),
		"BOOTSTRAP_EXPIRES_AT":  res.ExpiresAt.Format(time.RFC3339),
		"BOOTSTRAP_ORG_NAME":    res.OrganizationName,
		"BOOTSTRAP_ORG_SLUG":    res.OrganizationSlug,
		"BOOTSTRAP_OPERATOR_ID": res.OperatorID.String(),
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%s\n", k, vars[k])
	}
}
