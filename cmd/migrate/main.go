package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/backcat/backend/internal/infrastructure/config"
	"github.com/backcat/backend/internal/infrastructure/logger"
	"github.com/backcat/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("path", "migrations", "migrations directory")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if err := run(flag.Args(), *dir, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	runner, err := migration.NewRunner(db, abs, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			log.Error("close migration runner", zap.Error(err))
		}
	}()

	switch cmd := args[0]; cmd {
	case "up":
		return runner.Up()
	case "down":
		return runner.Down()
	case "steps":
		n, err := intArg(args, "steps <n>")
		if err != nil {
			return err
		}
		return runner.Steps(n)
	case "version":
		v, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		log.Info("current schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	case "force":
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return runner.Force(v)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func intArg(args []string, form string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s", form)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", args[1])
	}
	return n, nil
}

func usage() {
	fmt.Println(`usage: migrate [flags] <command> [args]

commands:
  up               apply all pending migrations
  down             roll back all migrations
  steps <n>        apply n migrations (negative rolls back)
  version          print the current schema version
  force <version>  set the version without running migrations

flags:
  -path <dir>       migrations directory (default: ./migrations)
  -log-level <lvl>  log level (debug, info, warn, error)`)
}
