package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/wjlander/choo/internal/config"
	"github.com/wjlander/choo/internal/version"
)

const (
	exitOK      = 0
	exitUsage   = 2
	exitConfig  = 3
	exitMigrate = 4
)

// migration is one goose invocation resolved from the command line.
type migration struct {
	Command     string
	Args        []string
	DatabaseURL string
	Dir         string
}

// migrateCommands maps each accepted subcommand to the number of positional
// arguments it takes. up-to and down-to take a target version.
var migrateCommands = map[string]int{
	"up":      0,
	"up-to":   1,
	"down":    0,
	"down-to": 1,
	"redo":    0,
	"status":  0,
	"version": 0,
}

var (
	migrateRunner            = realMigrateRunner
	migrateTimeout           = 5 * time.Minute
	osExit                   = os.Exit
	stderr         io.Writer = os.Stderr
)

func handleCLICommand(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "migrate":
		osExit(runMigrate(args[1:]))
		return true
	case "version", "--version":
		fmt.Println(version.String())
		osExit(exitOK)
		return true
	case "help", "-h", "--help":
		printHelp(os.Stdout)
		osExit(exitOK)
		return true
	}
	return false
}

func parseMigration(args []string) (migration, error) {
	if len(args) == 0 {
		return migration{}, errors.New("missing migrate subcommand")
	}
	want, ok := migrateCommands[args[0]]
	if !ok {
		return migration{}, fmt.Errorf("unknown migrate subcommand: %s", args[0])
	}
	rest := args[1:]
	if len(rest) != want {
		return migration{}, fmt.Errorf("migrate %s takes %d argument(s), got %d", args[0], want, len(rest))
	}
	if want == 1 {
		if _, err := strconv.ParseInt(rest[0], 10, 64); err != nil {
			return migration{}, fmt.Errorf("migrate %s: version must be numeric, got %q", args[0], rest[0])
		}
	}
	return migration{Command: args[0], Args: rest}, nil
}

func runMigrate(args []string) int {
	m, err := parseMigration(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return exitConfig
	}
	m.DatabaseURL = cfg.DatabaseURL
	m.Dir = cfg.MigrationsDir

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := migrateRunner(ctx, m); err != nil {
		fmt.Fprintf(stderr, "migrate %s failed: %v\n", m.Command, err)
		return exitMigrate
	}
	return exitOK
}

func realMigrateRunner(ctx context.Context, m migration) error {
	if m.DatabaseURL == "" {
		return errors.New("DATABASE_URL is empty")
	}
	db, err := sql.Open("pgx", m.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.RunContext(ctx, m.Command, db, m.Dir, m.Args...)
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "choo api %s\n\n", version.String())
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  choo-api                          Start API server")
	fmt.Fprintln(w, "  choo-api migrate up               Apply all pending migrations")
	fmt.Fprintln(w, "  choo-api migrate up-to VERSION    Apply migrations up to VERSION")
	fmt.Fprintln(w, "  choo-api migrate down             Roll back one migration")
	fmt.Fprintln(w, "  choo-api migrate down-to VERSION  Roll back to VERSION")
	fmt.Fprintln(w, "  choo-api migrate redo             Roll back and re-apply the latest migration")
	fmt.Fprintln(w, "  choo-api migrate status           Show migration status")
	fmt.Fprintln(w, "  choo-api migrate version          Print the current schema version")
	fmt.Fprintln(w, "  choo-api version                  Print the build version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Migrations are read from MIGRATIONS_DIR (default ./migrations).")
}
