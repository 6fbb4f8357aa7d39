package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Applies schema migrations from db/migrations against DB_URL.
func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		log.Fatalf("locate migrations: %v", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Printf("close migration source: %v", srcErr)
		}
		if dbErr != nil {
			log.Printf("close migration db: %v", dbErr)
		}
	}()

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	if err := run(m, cmd, os.Args[2:]); err != nil {
		if errors.Is(err, errUnknownCommand) {
			printUsage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

var errUnknownCommand = errors.New("unknown command")

func run(m *migrate.Migrate, cmd string, args []string) error {
	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Printf("migrations applied")
		return nil

	case "down":
		steps := 1
		if len(args) > 0 {
			parsed, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || parsed <= 0 {
				return fmt.Errorf("invalid down steps %q", args[0])
			}
			steps = parsed
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
		return nil

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
		return nil

	case "force":
		if len(args) < 1 {
			return fmt.Errorf("force requires a version argument")
		}
		version, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || version < 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		log.Printf("forced version to %d", version)
		return nil

	default:
		return errUnknownCommand
	}
}

func migrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force> [args]\n", prog)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", prog)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", prog)
	fmt.Fprintf(os.Stderr, "  %s force 1\n", prog)
}
