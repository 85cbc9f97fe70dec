// Command migrate manages the article schema outside of server startup.
//
//	migrate up              apply all pending migrations
//	migrate down            roll back the last migration
//	migrate goto <version>  migrate up or down to version
//	migrate version         print the applied version
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/article-api/internal/config"
	"github.com/article-api/internal/database"
	"github.com/article-api/pkg/logger"
)

const usage = "usage: migrate up|down|goto <version>|version"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: "pretty", Output: os.Stderr})

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := run(db, os.Args[1:]); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("Migration command failed")
		db.Close()
		os.Exit(1)
	}
}

func run(db *database.DB, args []string) error {
	switch args[0] {
	case "up":
		return db.RunMigrations()
	case "down":
		return db.MigrateDown()
	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("goto requires a version")
		}
		version, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return db.MigrateToVersion(uint(version))
	case "version":
		version, dirty, err := db.MigrationVersion()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
