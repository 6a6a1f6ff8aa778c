package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// migrator is the subset of *migrate.Migrate the command drives.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
}

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up, down, version or force")
	force := flag.Int("version", -1, "version to force when -mode=force")
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL not set in environment")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	m, err := newMigrator(db, getenv("MIGRATIONS_DIR", "./migrations"))
	if err != nil {
		log.Fatal(err)
	}

	if err := run(m, *mode, *force); err != nil {
		log.Fatal(err)
	}
}

func newMigrator(db *sql.DB, dir string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create postgres driver: %w", err)
	}

	src, err := sourceURL(dir)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithDatabaseInstance(src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

func sourceURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid migrations dir %q: %w", dir, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func run(m migrator, mode string, forceVersion int) error {
	switch mode {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("no new migrations")
				return nil
			}
			return fmt.Errorf("could not run migrations: %w", err)
		}
		log.Println("all migrations applied")
	case "down":
		if err := m.Steps(-1); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Println("no migrations to roll back")
				return nil
			}
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Println("rolled back one migration")
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read version: %w", err)
		}
		log.Printf("version %d (dirty=%t)", v, dirty)
	case "force":
		if forceVersion < 0 {
			return errors.New("-version is required with -mode=force")
		}
		if err := m.Force(forceVersion); err != nil {
			return fmt.Errorf("force failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown mode: %s (use 'up', 'down', 'version' or 'force')", mode)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
