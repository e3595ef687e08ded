// Package main is the entry point for the Slowish database migration tool.
// This tool manages PostgreSQL schema migrations; the embedded SQLite
// backend migrates itself at server startup and does not need it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prn-tf/slowish/internal/config"
	"github.com/prn-tf/slowish/internal/repository/postgres"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Slowish Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up", "down", "status":
		runMigration(command, os.Args[2:])

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runMigration(command string, args []string) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg := config.MustLoad(*configPath)
		if cfg.Database.IsEmbedded() {
			fmt.Fprintln(os.Stderr, "migrations only apply to the postgres driver")
			os.Exit(1)
		}
		dsn = cfg.Database.DSN()
	}

	db, err := postgres.OpenSQL(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	switch command {
	case "up":
		err = postgres.MigrateUp(ctx, db)
	case "down":
		err = postgres.MigrateDown(ctx, db)
	case "status":
		err = postgres.MigrationStatus(ctx, db)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if command != "status" {
		fmt.Printf("migration %s complete\n", command)
	}
}

func printUsage() {
	fmt.Println(`Slowish Migration Tool

Usage:
  slowish-migrate <command> [arguments]

Commands:
  up          Apply all pending migrations
  down        Roll back the last migration
  status      Show migration status
  version     Print version information
  help        Show this help message

The connection string is read from DATABASE_URL when set, otherwise
from the configuration file (--config).`)
}
