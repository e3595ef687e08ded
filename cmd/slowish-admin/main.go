// Package main is the entry point for the Slowish admin CLI.
// This tool provisions accounts and users; there is no HTTP surface
// for provisioning, so operators use this before pointing clients at
// the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/config"
	"github.com/prn-tf/slowish/internal/repository"
	"github.com/prn-tf/slowish/internal/repository/postgres"
	"github.com/prn-tf/slowish/internal/repository/sqlite"
	"github.com/prn-tf/slowish/internal/service"
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
		fmt.Printf("Slowish Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "account":
		runAccountCommand(os.Args[2:])

	case "user":
		runUserCommand(os.Args[2:])

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runAccountCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "account requires a subcommand: create, list, delete")
		os.Exit(1)
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("account create", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		id := fs.Int64("id", 0, "numeric account id")
		fs.Parse(args[1:])
		if *id <= 0 {
			fmt.Fprintln(os.Stderr, "account create requires --id")
			os.Exit(1)
		}

		withRepositories(*configPath, func(ctx context.Context, repos *repository.Repositories) error {
			_, created, err := repos.Account.CreateOrGet(ctx, *id)
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("account %d created\n", *id)
			} else {
				fmt.Printf("account %d already exists\n", *id)
			}
			return nil
		})

	case "list":
		fs := flag.NewFlagSet("account list", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		fs.Parse(args[1:])

		withRepositories(*configPath, func(ctx context.Context, repos *repository.Repositories) error {
			accounts, err := repos.Account.List(ctx)
			if err != nil {
				return err
			}
			for _, account := range accounts {
				fmt.Printf("%d\t%s\n", account.ID, account.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		})

	case "delete":
		fs := flag.NewFlagSet("account delete", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		id := fs.Int64("id", 0, "numeric account id")
		fs.Parse(args[1:])
		if *id <= 0 {
			fmt.Fprintln(os.Stderr, "account delete requires --id")
			os.Exit(1)
		}

		withRepositories(*configPath, func(ctx context.Context, repos *repository.Repositories) error {
			if err := repos.Account.Delete(ctx, *id); err != nil {
				return err
			}
			fmt.Printf("account %d deleted\n", *id)
			return nil
		})

	default:
		fmt.Fprintf(os.Stderr, "Unknown account subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runUserCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "user requires a subcommand: create, list")
		os.Exit(1)
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		accountID := fs.Int64("account", 0, "numeric account id")
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		fs.Parse(args[1:])
		if *accountID <= 0 || *username == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "user create requires --account, --username and --password")
			os.Exit(1)
		}

		withServices(*configPath, func(ctx context.Context, users *service.UserService) error {
			out, err := users.CreateUser(ctx, service.CreateUserInput{
				AccountID: *accountID,
				Username:  *username,
				Password:  *password,
			})
			if err != nil {
				return err
			}
			// The token is printed once here and never logged.
			fmt.Printf("user %s created in account %d\n", out.User.Username, out.User.AccountID)
			fmt.Printf("token: %s\n", out.User.Token)
			return nil
		})

	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		accountID := fs.Int64("account", 0, "numeric account id")
		fs.Parse(args[1:])
		if *accountID <= 0 {
			fmt.Fprintln(os.Stderr, "user list requires --account")
			os.Exit(1)
		}

		withServices(*configPath, func(ctx context.Context, users *service.UserService) error {
			out, err := users.ListUsers(ctx, service.ListUsersInput{AccountID: *accountID})
			if err != nil {
				return err
			}
			for _, user := range out.Users {
				fmt.Printf("%d\t%s\t%s\n", user.ID, user.Username, user.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		})

	default:
		fmt.Fprintf(os.Stderr, "Unknown user subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

// withRepositories opens the configured database, runs fn and exits
// non-zero on failure.
func withRepositories(configPath string, fn func(context.Context, *repository.Repositories) error) {
	ctx := context.Background()
	cfg := config.MustLoad(configPath)
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	repos, closeDB, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	if err := fn(ctx, repos); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func withServices(configPath string, fn func(context.Context, *service.UserService) error) {
	withRepositories(configPath, func(ctx context.Context, repos *repository.Repositories) error {
		cfg := config.MustLoad(configPath)
		logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
		users := service.NewUserService(repos.Account, repos.User, cfg.Auth.TokenLength, logger)
		return fn(ctx, users)
	})
}

func openRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Repositories, func(), error) {
	if cfg.Database.IsEmbedded() {
		dbCfg := sqlite.DefaultConfig(cfg.Database.Path)
		dbCfg.JournalMode = cfg.Database.JournalMode
		dbCfg.BusyTimeout = cfg.Database.BusyTimeout
		dbCfg.SynchronousMode = cfg.Database.SynchronousMode

		db, err := sqlite.NewDB(ctx, dbCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewRepositories(db), func() { db.Close() }, nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewRepositories(db), func() { db.Close() }, nil
}

func printUsage() {
	fmt.Println(`Slowish Admin CLI

Usage:
  slowish-admin <command> [arguments]

Commands:
  account     Manage accounts (create, list, delete)
  user        Manage users (create, list)
  version     Print version information
  help        Show this help message

Examples:
  slowish-admin account create --id 1234
  slowish-admin user create --account 1234 --username bob --password secret
  slowish-admin user list --account 1234

Deleting an account removes its users, containers and files.`)
}
