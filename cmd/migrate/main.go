package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"no-homers/database"
	"no-homers/logging"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logging.Debugf("No .env file: %v", err)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		logging.Fatal("DATABASE_URL is required")
	}

	m, err := database.NewMigrator(dbURL)
	if err != nil {
		logging.Fatalf("create migrator: %v", err)
	}
	defer database.CloseMigrator(m)

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	switch cmd {
	case "up":
		handleMigrationErr(m.Up())
		logging.Info("migrations applied")
	case "down":
		steps, err := parseSteps(os.Args[2:])
		if err != nil {
			logging.Fatal(err)
		}
		handleMigrationErr(m.Steps(-steps))
		logging.Infof("rolled back %d migration(s)", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return
		}
		if err != nil {
			logging.Fatalf("read version: %v", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
	case "force":
		if len(os.Args) < 3 {
			logging.Fatal("force requires a version argument")
		}
		version, err := strconv.Atoi(strings.TrimSpace(os.Args[2]))
		if err != nil || version < 0 {
			logging.Fatalf("invalid version %q", os.Args[2])
		}
		if err := m.Force(version); err != nil {
			logging.Fatalf("force version %d: %v", version, err)
		}
		logging.Infof("forced version to %d", version)
	case "goto":
		if len(os.Args) < 3 {
			logging.Fatal("goto requires a target version argument")
		}
		target, err := strconv.ParseUint(strings.TrimSpace(os.Args[2]), 10, 64)
		if err != nil {
			logging.Fatalf("invalid target version %q: %v", os.Args[2], err)
		}
		handleMigrationErr(m.Migrate(uint(target)))
		logging.Infof("migrated to version %d", target)
	default:
		printUsage()
		os.Exit(2)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid down steps %q", args[0])
	}
	if steps <= 0 {
		return 0, errors.New("down steps must be > 0")
	}
	return steps, nil
}

func handleMigrationErr(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logging.Info("no migration changes")
		return
	}
	logging.Fatal(err)
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force|goto> [args]\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s force 1\n", name)
}
